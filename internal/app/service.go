// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/rehound/rehound/internal/adapters/mq/queue"
	workerpool "github.com/rehound/rehound/internal/adapters/mq/worker"
	"github.com/rehound/rehound/internal/adapters/notify"
	"github.com/rehound/rehound/internal/adapters/repository"
	"github.com/rehound/rehound/internal/domain/dedupe"
	"github.com/rehound/rehound/internal/domain/match"
	"github.com/rehound/rehound/internal/domain/model"
	"github.com/rehound/rehound/pkg/logger"
	"github.com/rehound/rehound/pkg/metrics"
)

// Store backend names accepted by WithStoreKind.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Service implements the API dependencies for the report matching system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	matchQueue queue.Queue
	matcher    *match.Matcher
	inbox      *notify.Inbox
	workerPool *workerpool.Pool

	// Configuration
	workerCount      int
	queueSize        int
	dedupeSize       int
	inboxSize        int
	storeKind        string
	sqlitePath       string
	notifyThreshold  float64
	displayThreshold float64
	matchOpts        []match.Option

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of match worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the match job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the submission deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithInboxSize caps how many notifications are kept per user.
func WithInboxSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.inboxSize = size
		}
	}
}

// WithStoreKind selects the report store backend, "memory" or "sqlite".
func WithStoreKind(kind string) Option {
	return func(s *Service) {
		if kind == StoreMemory || kind == StoreSQLite {
			s.storeKind = kind
		}
	}
}

// WithSQLitePath sets the database file used by the sqlite store.
func WithSQLitePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.sqlitePath = path
		}
	}
}

// WithNotifyThreshold sets the score a match needs to notify owners.
func WithNotifyThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold > 0 && threshold <= 1 {
			s.notifyThreshold = threshold
		}
	}
}

// WithDisplayThreshold sets the default score cutoff for match listings.
func WithDisplayThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold > 0 && threshold <= 1 {
			s.displayThreshold = threshold
		}
	}
}

// WithMatchOptions forwards scoring options to the matcher.
func WithMatchOptions(opts ...match.Option) Option {
	return func(s *Service) {
		s.matchOpts = append(s.matchOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU() * 2,
		queueSize:        10000,
		dedupeSize:       50000,
		storeKind:        StoreMemory,
		sqlitePath:       "rehound.db",
		notifyThreshold:  match.DefaultNotifyThreshold,
		displayThreshold: match.DefaultDisplayThreshold,
		stopCh:           make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting report matching service...")

	switch s.storeKind {
	case StoreSQLite:
		store, err := repository.OpenSQLite(s.sqlitePath)
		if err != nil {
			return fmt.Errorf("failed to open sqlite store: %w", err)
		}
		s.store = store
		s.logger.Info(ctx, "using sqlite store", logger.String("path", s.sqlitePath))
	default:
		s.store = repository.NewMemStore()
		s.logger.Info(ctx, "using in-memory store")
	}

	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.matchQueue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
		queue.WithBufferSize(s.queueSize),
	)
	s.matcher = match.New(s.matchOpts...)

	inboxOpts := []notify.InboxOption{}
	if s.inboxSize > 0 {
		inboxOpts = append(inboxOpts, notify.WithMaxPerUser(s.inboxSize))
	}
	s.inbox = notify.NewInbox(inboxOpts...)

	s.workerPool = workerpool.NewPool(s.workerCount, s.matchQueue, s.store, s.matcher, s.inbox,
		workerpool.WithNotifyThreshold(s.notifyThreshold),
	)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "report matching service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("store", s.storeKind),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping report matching service...")

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	if s.matchQueue != nil {
		_ = s.matchQueue.Close()
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "report matching service stopped")
}

// SeenAndRecord atomically checks if a submission id was seen and records
// it if not. Returns true if the submission was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordReportDuplicate()
	}
	return seen
}

// Unrecord removes a submission ID from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// CreateReport persists a report and schedules its match pass. The match
// job is best effort; a full queue never fails the creation.
func (s *Service) CreateReport(ctx context.Context, r *model.Report) (model.Report, error) {
	created, err := s.store.Create(ctx, r)
	if err != nil {
		return model.Report{}, err
	}
	metrics.RecordReportCreated()

	if ok := s.matchQueue.Enqueue(ctx, queue.Job{ReportID: created.ID}); !ok {
		s.logger.Warn(ctx, "match queue full, skipping background match",
			logger.String("reportID", created.ID),
		)
	}
	metrics.UpdateQueueSize(s.matchQueue.Len(ctx))

	return created, nil
}

// Report returns the report with the given id.
func (s *Service) Report(ctx context.Context, id string) (model.Report, error) {
	return s.store.Get(ctx, id)
}

// Reports lists reports matching the filter in creation order.
func (s *Service) Reports(ctx context.Context, f repository.Filter) ([]model.Report, error) {
	return s.store.List(ctx, f)
}

// MatchesFor scores the report against the active opposite-kind pool and
// returns candidates at or above threshold, best first.
func (s *Service) MatchesFor(ctx context.Context, id string, threshold float64) ([]match.Candidate, error) {
	report, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	pool, err := s.store.ActiveByKind(ctx, report.Kind.Opposite())
	if err != nil {
		return nil, err
	}

	metrics.RecordMatchRun()
	metrics.RecordCandidatesScored(len(pool))
	candidates := s.matcher.FindMatches(&report, pool, threshold)
	metrics.RecordMatchesFound(len(candidates))
	return candidates, nil
}

// UpdateReportStatus transitions a report's lifecycle status.
func (s *Service) UpdateReportStatus(ctx context.Context, id string, status model.Status) (model.Report, error) {
	return s.store.UpdateStatus(ctx, id, status)
}

// Notifications reads a user's match notification inbox, newest first.
func (s *Service) Notifications(_ context.Context, userID string) []notify.Notification {
	return s.inbox.NotificationsFor(userID)
}

// DisplayThreshold returns the configured default match listing cutoff.
func (s *Service) DisplayThreshold() float64 {
	return s.displayThreshold
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"store":       s.storeKind,
	}

	if s.started {
		queueLen := s.matchQueue.Len(ctx)
		totalReports := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalReports"] = totalReports
		stats["notifications"] = s.inbox.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalReports(totalReports)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
