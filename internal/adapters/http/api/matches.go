// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"

	"github.com/rehound/rehound/internal/domain/match"
	"github.com/rehound/rehound/internal/domain/types"
)

// MatchesHandler handles on-demand match listings for a report.
type MatchesHandler struct {
	deps             Dependencies
	defaultThreshold float64
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps Dependencies, defaultThreshold float64) *MatchesHandler {
	if defaultThreshold <= 0 || defaultThreshold > 1 {
		defaultThreshold = match.DefaultDisplayThreshold
	}
	return &MatchesHandler{deps: deps, defaultThreshold: defaultThreshold}
}

// HandleGetMatches handles GET /reports/{id}/matches?threshold=N requests.
func (h *MatchesHandler) HandleGetMatches(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	threshold := h.defaultThreshold
	if v := r.URL.Query().Get("threshold"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		threshold = clampThreshold(t)
	}

	candidates, err := h.deps.MatchesFor(r.Context(), id, threshold)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	out := make([]Match, 0, len(candidates))
	for i := range candidates {
		out = append(out, types.FromCandidate(&candidates[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func clampThreshold(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}
