// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"strings"
	"time"
)

// Kind distinguishes lost reports from found reports. It is immutable after
// creation and determines which pool a report is matched against.
type Kind string

// Report kinds.
const (
	KindLost  Kind = "lost"
	KindFound Kind = "found"
)

// Opposite returns the kind a report of kind k is matched against.
func (k Kind) Opposite() Kind {
	if k == KindLost {
		return KindFound
	}
	return KindLost
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindLost || k == KindFound
}

// ParseKind normalizes and validates a kind string.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", ErrUnknownKind
	}
	return k, nil
}

// Status tracks the report lifecycle. Only active reports participate as
// match candidates.
type Status string

// Report statuses.
const (
	StatusActive   Status = "active"
	StatusResolved Status = "resolved"
	StatusExpired  Status = "expired"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusResolved || s == StatusExpired
}

// ParseStatus normalizes and validates a status string.
func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", ErrUnknownStatus
	}
	return s, nil
}

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Valid reports whether p lies within coordinate bounds.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Report represents a single lost-or-found dog submission.
type Report struct {
	ID          string    // assigned by the store at persistence time
	Kind        Kind      // lost or found; immutable after creation
	Breed       string    // free text, user supplied
	Color       string    // free text, hyphen-joined by convention ("brown-white")
	Location    Point     // required
	OwnerUserID string    // empty for guest submissions; guests are never notified
	AnchorDate  time.Time // last-seen date for lost, found-on date for found
	Status      Status
	Description string
	PhotoURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validation errors.
var (
	ErrUnknownKind     = errors.New("unknown report kind")
	ErrUnknownStatus   = errors.New("unknown report status")
	ErrInvalidLocation = errors.New("invalid location")
	ErrMissingAnchor   = errors.New("missing anchor date")
)

// Validate checks creation-time invariants. The matcher itself tolerates
// malformed fields; validation here keeps junk out of the store.
func (r *Report) Validate() error {
	if !r.Kind.Valid() {
		return ErrUnknownKind
	}
	if !r.Location.Valid() {
		return ErrInvalidLocation
	}
	if r.AnchorDate.IsZero() {
		return ErrMissingAnchor
	}
	if r.Status != "" && !r.Status.Valid() {
		return ErrUnknownStatus
	}
	return nil
}

// HasOwner reports whether the report has a notifiable owner.
func (r *Report) HasOwner() bool {
	return strings.TrimSpace(r.OwnerUserID) != ""
}
