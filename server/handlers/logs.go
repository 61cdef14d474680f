package handlers

import (
	"net/http"

	"github.com/nomis52/keep/logging"
)

// LogsResponse is the JSON response for the per-record logs endpoint.
type LogsResponse struct {
	Key  string             `json:"key"`
	Logs []logging.LogEntry `json:"logs"`
}

// LogsHandler handles requests for captured per-record logs.
type LogsHandler struct {
	provider LogsProvider
}

// NewLogsHandler creates a new LogsHandler.
func NewLogsHandler(provider LogsProvider) *LogsHandler {
	return &LogsHandler{
		provider: provider,
	}
}

// ServeHTTP implements http.Handler.
func (h *LogsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "activity key is required",
		})
		return
	}

	logs := h.provider.GetLogs(key)
	if logs == nil {
		logs = []logging.LogEntry{}
	}
	writeJSON(w, http.StatusOK, LogsResponse{
		Key:  key,
		Logs: logs,
	})
}

// StatusLinesHandler handles requests for current per-record status lines.
type StatusLinesHandler struct {
	provider StatusLineProvider
}

// NewStatusLinesHandler creates a new StatusLinesHandler.
func NewStatusLinesHandler(provider StatusLineProvider) *StatusLinesHandler {
	return &StatusLinesHandler{
		provider: provider,
	}
}

// ServeHTTP implements http.Handler.
func (h *StatusLinesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.provider.All())
}
