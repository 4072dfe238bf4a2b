// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rehound/rehound/internal/adapters/notify"
	"github.com/rehound/rehound/internal/adapters/repository"
	"github.com/rehound/rehound/internal/domain/dedupe"
	"github.com/rehound/rehound/internal/domain/match"
	"github.com/rehound/rehound/internal/domain/model"
	"github.com/rehound/rehound/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// CreateReport persists a report and schedules its match pass.
	CreateReport(ctx context.Context, r *model.Report) (model.Report, error)

	// Read operations expose report data.
	Report(ctx context.Context, id string) (model.Report, error)
	Reports(ctx context.Context, f repository.Filter) ([]model.Report, error)

	// MatchesFor runs the on-demand display match for a report.
	MatchesFor(ctx context.Context, id string, threshold float64) ([]match.Candidate, error)

	// UpdateReportStatus transitions a report's lifecycle status.
	UpdateReportStatus(ctx context.Context, id string, status model.Status) (model.Report, error)

	// Notifications reads a user's match notification inbox.
	Notifications(ctx context.Context, userID string) []notify.Notification
}

// Report mirrors the read shape returned by report queries.
type Report = types.Report

// Match mirrors the read shape returned by match queries.
type Match = types.Match

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	reportsHandler       *ReportsHandler
	matchesHandler       *MatchesHandler
	statusHandler        *StatusHandler
	notificationsHandler *NotificationsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxListLimit int, displayThreshold float64) *Server {
	return &Server{
		healthHandler:        NewHealthHandler(),
		statsHandler:         NewStatsHandler(statsProvider),
		reportsHandler:       NewReportsHandler(deps, maxListLimit),
		matchesHandler:       NewMatchesHandler(deps, displayThreshold),
		statusHandler:        NewStatusHandler(deps),
		notificationsHandler: NewNotificationsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/reports", MetricsMiddleware(s.reportsHandler.HandleReports, "reports"))
	mux.HandleFunc("/reports/", MetricsMiddleware(s.handleReportSubtree, "reports"))
	mux.HandleFunc("/notifications/", MetricsMiddleware(s.notificationsHandler.HandleGetNotifications, "notifications"))
}

// handleReportSubtree dispatches /reports/{id}, /reports/{id}/matches,
// and /reports/{id}/status.
func (s *Server) handleReportSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/reports/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch sub {
	case "":
		s.reportsHandler.HandleGetReport(w, r, id)
	case "matches":
		s.matchesHandler.HandleGetMatches(w, r, id)
	case "status":
		s.statusHandler.HandlePatchStatus(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

// reportRequest mirrors the OpenAPI schema for POST /reports.
type reportRequest struct {
	Kind         string  `json:"kind"`
	Breed        string  `json:"breed"`
	Color        string  `json:"color"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	OwnerUserID  string  `json:"owner_user_id"`
	AnchorDate   string  `json:"anchor_date"`
	Description  string  `json:"description"`
	PhotoURL     string  `json:"photo_url"`
	SubmissionID string  `json:"submission_id"`
}

// anchorDateLayout is the date-only format accepted for anchor_date.
const anchorDateLayout = "2006-01-02"

func (req reportRequest) validate() error {
	if _, err := model.ParseKind(req.Kind); err != nil {
		return errors.New("invalid kind; must be lost or found")
	}
	if !(model.Point{Lat: req.Lat, Lng: req.Lng}).Valid() {
		return errors.New("invalid lat/lng")
	}
	if strings.TrimSpace(req.AnchorDate) == "" {
		return errors.New("missing anchor_date")
	}
	if _, err := time.Parse(anchorDateLayout, req.AnchorDate); err != nil {
		return errors.New("invalid anchor_date; must be YYYY-MM-DD")
	}
	return nil
}

// toModel converts a validated request to a domain report.
func (req reportRequest) toModel() model.Report {
	kind, _ := model.ParseKind(req.Kind)
	anchor, _ := time.Parse(anchorDateLayout, req.AnchorDate)
	return model.Report{
		Kind:        kind,
		Breed:       strings.TrimSpace(req.Breed),
		Color:       strings.TrimSpace(req.Color),
		Location:    model.Point{Lat: req.Lat, Lng: req.Lng},
		OwnerUserID: strings.TrimSpace(req.OwnerUserID),
		AnchorDate:  anchor,
		Description: req.Description,
		PhotoURL:    strings.TrimSpace(req.PhotoURL),
	}
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
