// Package repository defines the report store interface and errors.
package repository

import (
	"context"

	"github.com/rehound/rehound/internal/domain/model"
)

// Filter narrows List results. Zero values mean "any".
type Filter struct {
	Kind   model.Kind
	Status model.Status
	Limit  int
}

// Store provides read/write access to persisted reports. The store owns the
// report lifecycle exclusively; the matcher only reads pools handed out by
// ActiveByKind.
type Store interface {
	// Create persists a new report, assigning its ID and timestamps.
	// A report with an empty status is created active.
	Create(ctx context.Context, r *model.Report) (model.Report, error)

	// Get returns the report with the given id.
	// Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (model.Report, error)

	// List returns reports matching the filter in creation order.
	List(ctx context.Context, f Filter) ([]model.Report, error)

	// ActiveByKind returns the active reports of the given kind in creation
	// order. This is the candidate-pool fetch used by the match workers.
	ActiveByKind(ctx context.Context, kind model.Kind) ([]model.Report, error)

	// UpdateStatus transitions a report's lifecycle status.
	UpdateStatus(ctx context.Context, id string, status model.Status) (model.Report, error)

	// Count returns the number of reports tracked by the store.
	Count(ctx context.Context) int
}
