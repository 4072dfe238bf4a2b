// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rehound/rehound/internal/adapters/repository"
	"github.com/rehound/rehound/internal/domain/model"
	"github.com/rehound/rehound/internal/domain/types"
)

// ReportsHandler handles report creation and listing.
type ReportsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps Dependencies, maxLimit int) *ReportsHandler {
	return &ReportsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleReports handles POST /reports and GET /reports requests.
func (h *ReportsHandler) HandleReports(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleCreate persists a new report. The match pass runs in the
// background; creation acknowledges as soon as the report is stored.
func (h *ReportsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	// Idempotency check when the client supplies a submission ID.
	if req.SubmissionID != "" && h.deps.SeenAndRecord(r.Context(), req.SubmissionID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	report := req.toModel()
	created, err := h.deps.CreateReport(r.Context(), &report)
	if err != nil {
		// Roll back the "seen" status so the client can retry.
		if req.SubmissionID != "" {
			h.deps.Unrecord(r.Context(), req.SubmissionID)
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusCreated, types.FromReport(&created))
}

// handleList handles GET /reports?kind=&status=&limit=N requests.
func (h *ReportsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	var f repository.Filter

	if v := r.URL.Query().Get("kind"); v != "" {
		kind, err := model.ParseKind(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		f.Kind = kind
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status, err := model.ParseStatus(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		f.Status = status
	}
	f.Limit = h.maxLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", ErrBadRequest)
			return
		}
		f.Limit = n
	}

	reports, err := h.deps.Reports(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	out := make([]Report, 0, len(reports))
	for i := range reports {
		out = append(out, types.FromReport(&reports[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetReport handles GET /reports/{id} requests.
func (h *ReportsHandler) HandleGetReport(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	report, err := h.deps.Report(r.Context(), id)
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
