package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nomis52/keep/activity"
	"github.com/nomis52/keep/registry"
)

// ModeRequest defines the request body for POST /api/activities/{key}/mode.
type ModeRequest struct {
	Mode string `json:"mode"`
}

// ModeHandler handles requests to change a record's mode. It only
// transitions records that already exist; record creation stays with the
// embedding host, which owns payload factories and effects.
type ModeHandler struct {
	logger   *slog.Logger
	setter   ModeSetter
	provider SnapshotProvider
}

// NewModeHandler creates a new ModeHandler.
func NewModeHandler(logger *slog.Logger, setter ModeSetter, provider SnapshotProvider) *ModeHandler {
	return &ModeHandler{
		logger:   logger,
		setter:   setter,
		provider: provider,
	}
}

// ServeHTTP implements http.Handler.
func (h *ModeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "activity key is required",
		})
		return
	}

	var req ModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("invalid JSON: %v", err),
		})
		return
	}

	mode, err := activity.ParseMode(req.Mode)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	// SetMode creates absent keys; the API must not, so look up first.
	if _, err := h.provider.Get(key); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{
				Error: err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	handle, err := h.setter.SetMode(key, mode, nil)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	h.logger.Info("mode changed via API", "key", key, "mode", mode)
	writeJSON(w, http.StatusOK, handle)
}

// RemoveHandler handles requests to remove a record.
type RemoveHandler struct {
	logger *slog.Logger
	setter ModeSetter
}

// NewRemoveHandler creates a new RemoveHandler.
func NewRemoveHandler(logger *slog.Logger, setter ModeSetter) *RemoveHandler {
	return &RemoveHandler{
		logger: logger,
		setter: setter,
	}
}

// ServeHTTP implements http.Handler.
func (h *RemoveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "activity key is required",
		})
		return
	}

	if err := h.setter.Remove(key); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{
				Error: err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	h.logger.Info("record removed via API", "key", key)
	w.WriteHeader(http.StatusNoContent)
}
