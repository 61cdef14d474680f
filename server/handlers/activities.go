package handlers

import (
	"errors"
	"net/http"

	"github.com/nomis52/keep/activity"
	"github.com/nomis52/keep/registry"
)

// ActivitiesResponse is the JSON response for the activity list endpoint.
type ActivitiesResponse struct {
	Activities []activity.Handle `json:"activities"`
}

// ActivitiesHandler handles requests to list current activity records.
type ActivitiesHandler struct {
	provider SnapshotProvider
}

// NewActivitiesHandler creates a new ActivitiesHandler.
func NewActivitiesHandler(provider SnapshotProvider) *ActivitiesHandler {
	return &ActivitiesHandler{
		provider: provider,
	}
}

// ServeHTTP implements http.Handler.
func (h *ActivitiesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handles := h.provider.Handles()
	if handles == nil {
		handles = []activity.Handle{}
	}
	writeJSON(w, http.StatusOK, ActivitiesResponse{Activities: handles})
}

// ActivityHandler handles requests for a single activity record.
type ActivityHandler struct {
	provider SnapshotProvider
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(provider SnapshotProvider) *ActivityHandler {
	return &ActivityHandler{
		provider: provider,
	}
}

// ServeHTTP implements http.Handler.
func (h *ActivityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "activity key is required",
		})
		return
	}

	handle, err := h.provider.Get(key)
	if err != nil {
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

	writeJSON(w, http.StatusOK, handle)
}
