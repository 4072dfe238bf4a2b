// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/rehound/rehound/internal/domain/model"
	"github.com/rehound/rehound/internal/domain/types"
)

// StatusHandler handles report lifecycle transitions.
type StatusHandler struct {
	deps Dependencies
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(deps Dependencies) *StatusHandler {
	return &StatusHandler{deps: deps}
}

// statusRequest mirrors the OpenAPI schema for PATCH /reports/{id}/status.
type statusRequest struct {
	Status string `json:"status"`
}

// HandlePatchStatus handles PATCH /reports/{id}/status requests.
func (h *StatusHandler) HandlePatchStatus(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPatch {
		http.NotFound(w, r)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	status, err := model.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	report, err := h.deps.UpdateReportStatus(r.Context(), id, status)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, types.FromReport(&report))
}
