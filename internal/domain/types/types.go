// Package types contains the JSON-facing shapes returned by the HTTP API.
package types

import (
	"time"

	"github.com/rehound/rehound/internal/domain/match"
	"github.com/rehound/rehound/internal/domain/model"
)

// Report mirrors the wire shape of a persisted report.
type Report struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Breed       string    `json:"breed,omitempty"`
	Color       string    `json:"color,omitempty"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	OwnerUserID string    `json:"owner_user_id,omitempty"`
	AnchorDate  string    `json:"anchor_date"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Breakdown exposes the four sub-scores behind a match.
type Breakdown struct {
	Breed    float64 `json:"breed"`
	Color    float64 `json:"color"`
	Location float64 `json:"location"`
	Time     float64 `json:"time"`
}

// Match pairs a candidate report with its composite score.
type Match struct {
	Report       Report    `json:"report"`
	Score        float64   `json:"score"`
	ScorePercent int       `json:"score_percent"`
	Breakdown    Breakdown `json:"breakdown"`
}

// Notification mirrors the wire shape of an owner notification.
type Notification struct {
	ID              string    `json:"id"`
	RecipientUserID string    `json:"recipient_user_id"`
	ReportID        string    `json:"report_id"`
	MatchedReportID string    `json:"matched_report_id"`
	ScorePercent    int       `json:"score_percent"`
	CreatedAt       time.Time `json:"created_at"`
}

// anchorDateLayout is the date-only format used for temporal anchors on the
// wire.
const anchorDateLayout = "2006-01-02"

// FromReport converts a domain report to its wire shape.
func FromReport(r *model.Report) Report {
	anchor := ""
	if !r.AnchorDate.IsZero() {
		anchor = r.AnchorDate.Format(anchorDateLayout)
	}
	return Report{
		ID:          r.ID,
		Kind:        string(r.Kind),
		Breed:       r.Breed,
		Color:       r.Color,
		Lat:         r.Location.Lat,
		Lng:         r.Location.Lng,
		OwnerUserID: r.OwnerUserID,
		AnchorDate:  anchor,
		Status:      string(r.Status),
		Description: r.Description,
		PhotoURL:    r.PhotoURL,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// FromCandidate converts a scored matcher candidate to its wire shape.
func FromCandidate(c *match.Candidate) Match {
	return Match{
		Report:       FromReport(&c.Report),
		Score:        c.Score,
		ScorePercent: match.ScorePercent(c.Score),
		Breakdown: Breakdown{
			Breed:    c.Breakdown.Breed,
			Color:    c.Breakdown.Color,
			Location: c.Breakdown.Location,
			Time:     c.Breakdown.Time,
		},
	}
}
