// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"

	"github.com/rehound/rehound/internal/domain/types"
)

// NotificationsHandler handles match notification inbox reads.
type NotificationsHandler struct {
	deps Dependencies
}

// NewNotificationsHandler creates a new notifications handler.
func NewNotificationsHandler(deps Dependencies) *NotificationsHandler {
	return &NotificationsHandler{deps: deps}
}

// HandleGetNotifications handles GET /notifications/{user_id} requests.
func (h *NotificationsHandler) HandleGetNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	userID := strings.TrimPrefix(r.URL.Path, "/notifications/")
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	list := h.deps.Notifications(r.Context(), userID)
	out := make([]types.Notification, 0, len(list))
	for _, n := range list {
		out = append(out, types.Notification{
			ID:              n.ID,
			RecipientUserID: n.RecipientUserID,
			ReportID:        n.ReportID,
			MatchedReportID: n.MatchedReportID,
			ScorePercent:    n.ScorePercent,
			CreatedAt:       n.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
