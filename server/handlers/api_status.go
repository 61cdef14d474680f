package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/nomis52/keep/buildinfo"
	"github.com/nomis52/keep/registry"
)

// NextSweepResponse is the JSON response for the next sweep information.
type NextSweepResponse struct {
	Scheduled bool       `json:"scheduled"`
	NextSweep *time.Time `json:"next_sweep,omitempty"`
}

// APIStatusResponse is the consolidated response for /api/status.
type APIStatusResponse struct {
	Registry  registry.Status      `json:"registry"`
	NextSweep NextSweepResponse    `json:"next_sweep"`
	Build     buildinfo.Properties `json:"build"`
}

// APIStatusHandler handles requests for the consolidated status endpoint.
type APIStatusHandler struct {
	logger   *slog.Logger
	provider StatusProvider
}

// NewAPIStatusHandler creates a new APIStatusHandler.
func NewAPIStatusHandler(logger *slog.Logger, provider StatusProvider) *APIStatusHandler {
	return &APIStatusHandler{
		logger:   logger,
		provider: provider,
	}
}

// ServeHTTP implements http.Handler.
func (h *APIStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	next := h.provider.NextSweep()
	resp := APIStatusResponse{
		Registry: h.provider.Status(),
		NextSweep: NextSweepResponse{
			Scheduled: next != nil,
			NextSweep: next,
		},
		Build: buildinfo.Get(),
	}
	writeJSON(w, http.StatusOK, resp)
}
