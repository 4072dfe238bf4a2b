package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rehound/rehound/internal/domain/model"
	"github.com/rehound/rehound/pkg/metrics"
)

// MemStore is an in-memory Store implementation. Reports are held in a map
// with a parallel creation-ordered index so pool fetches come back in a
// deterministic order.
type MemStore struct {
	mu    sync.RWMutex
	byID  map[string]*model.Report
	order []string // report IDs in creation order

	newID func() string
	now   func() time.Time
}

// NewMemStore creates an empty in-memory report store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		byID:  make(map[string]*model.Report),
		newID: uuid.NewString,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create persists a new report, assigning its ID and timestamps.
func (s *MemStore) Create(ctx context.Context, r *model.Report) (model.Report, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := r.Validate(); err != nil {
		metrics.RecordStoreError()
		return model.Report{}, err
	}

	stored := *r
	stored.ID = s.newID()
	if stored.Status == "" {
		stored.Status = model.StatusActive
	}
	now := s.now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.mu.Lock()
	s.byID[stored.ID] = &stored
	s.order = append(s.order, stored.ID)
	total := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateTotalReports(total)
	return stored, nil
}

// Get returns the report with the given id.
func (s *MemStore) Get(ctx context.Context, id string) (model.Report, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[id]
	if !ok {
		return model.Report{}, ErrNotFound
	}
	return *r, nil
}

// List returns reports matching the filter in creation order.
func (s *MemStore) List(ctx context.Context, f Filter) ([]model.Report, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Report, 0, len(s.order))
	for _, id := range s.order {
		r := s.byID[id]
		if f.Kind != "" && r.Kind != f.Kind {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, *r)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out, nil
}

// ActiveByKind returns the active reports of the given kind in creation
// order.
func (s *MemStore) ActiveByKind(ctx context.Context, kind model.Kind) ([]model.Report, error) {
	return s.List(ctx, Filter{Kind: kind, Status: model.StatusActive})
}

// UpdateStatus transitions a report's lifecycle status.
func (s *MemStore) UpdateStatus(ctx context.Context, id string, status model.Status) (model.Report, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if !status.Valid() {
		metrics.RecordStoreError()
		return model.Report{}, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return model.Report{}, ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = s.now().UTC()
	return *r, nil
}

// Count returns the number of reports tracked by the store.
func (s *MemStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
