// Package worker runs the asynchronous match pass that fires after a
// report is ingested. Workers drain jobs off the queue, score the new
// report against the opposite-kind pool, and notify both owners of
// every candidate that clears the notification threshold.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/rehound/rehound/internal/adapters/mq/queue"
	"github.com/rehound/rehound/internal/adapters/notify"
	"github.com/rehound/rehound/internal/adapters/repository"
	"github.com/rehound/rehound/internal/domain/match"
	"github.com/rehound/rehound/internal/domain/model"
	"github.com/rehound/rehound/pkg/logger"
	"github.com/rehound/rehound/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = queue.Job

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// ReportSource provides the reports a match pass reads.
type ReportSource interface {
	Get(ctx context.Context, id string) (model.Report, error)
	ActiveByKind(ctx context.Context, kind model.Kind) ([]model.Report, error)
}

// Matcher scores a report against a candidate pool.
type Matcher interface {
	FindMatches(query *model.Report, pool []model.Report, threshold float64) []match.Candidate
}

// Worker processes match jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker on top of the in-process queue.
type InMemoryWorker struct {
	queue    Queue
	source   ReportSource
	matcher  Matcher
	notifier notify.Notifier
	name     string

	threshold float64

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, source ReportSource, matcher Matcher, notifier notify.Notifier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		source:    source,
		matcher:   matcher,
		notifier:  notifier,
		name:      "worker",
		threshold: match.DefaultNotifyThreshold,
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	jobChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing match job", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob runs one match pass for the report named by the job. A
// missing, inactive, or ownerless report is skipped without error;
// ingest must never depend on the match pass succeeding.
func (w *InMemoryWorker) processJob(ctx context.Context, job Job) error {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	report, err := w.source.Get(ctx, job.ReportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.logger.Debug(ctx, "report gone before match pass",
				logger.String("reportID", job.ReportID),
			)
			return nil
		}
		metrics.RecordStoreError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		metrics.RecordErrorByType("store_error", "high")
		return fmt.Errorf("failed to load report %s: %w", job.ReportID, err)
	}

	if report.Status != model.StatusActive {
		w.logger.Debug(ctx, "skipping match pass for inactive report",
			logger.String("reportID", report.ID),
			logger.String("status", string(report.Status)),
		)
		return nil
	}
	if !report.HasOwner() {
		// Guest reports still show up in on-demand match listings, but
		// there is nobody to notify.
		return nil
	}

	pool, err := w.source.ActiveByKind(ctx, report.Kind.Opposite())
	if err != nil {
		metrics.RecordStoreError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		metrics.RecordErrorByType("store_error", "high")
		return fmt.Errorf("failed to load candidate pool for report %s: %w", report.ID, err)
	}

	// Only owned candidates can receive notifications.
	owned := make([]model.Report, 0, len(pool))
	for _, candidate := range pool {
		if candidate.HasOwner() {
			owned = append(owned, candidate)
		}
	}

	matchStart := time.Now()
	candidates := w.matcher.FindMatches(&report, owned, w.threshold)
	metrics.RecordMatchRun()
	metrics.RecordMatchRunLatency(float64(time.Since(matchStart).Milliseconds()))
	metrics.RecordCandidatesScored(len(owned))
	metrics.RecordMatchesFound(len(candidates))

	for i := range candidates {
		w.notifyPair(ctx, &report, &candidates[i])
	}

	return nil
}

// notifyPair tells both owners about a crossing match. Delivery
// failures are logged and dropped; one bad send must not starve the
// rest of the pass.
func (w *InMemoryWorker) notifyPair(ctx context.Context, report *model.Report, candidate *match.Candidate) {
	percent := match.ScorePercent(candidate.Score)

	pair := []notify.Notification{
		{
			RecipientUserID: report.OwnerUserID,
			ReportID:        report.ID,
			MatchedReportID: candidate.Report.ID,
			ScorePercent:    percent,
		},
		{
			RecipientUserID: candidate.Report.OwnerUserID,
			ReportID:        candidate.Report.ID,
			MatchedReportID: report.ID,
			ScorePercent:    percent,
		},
	}

	for _, n := range pair {
		if err := w.notifier.Notify(ctx, n); err != nil {
			metrics.RecordWorkerError()
			metrics.RecordErrorByComponent("worker", "notify_error")
			metrics.RecordErrorByType("notify_error", "medium")
			w.logger.Error(ctx, "notification delivery failed",
				logger.String("recipient", n.RecipientUserID),
				logger.String("reportID", n.ReportID),
				logger.Error(err),
			)
		}
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers  []*InMemoryWorker
	queue    Queue
	source   ReportSource
	matcher  Matcher
	notifier notify.Notifier

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, source ReportSource, matcher Matcher, notifier notify.Notifier, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    q,
		source:   source,
		matcher:  matcher,
		notifier: notifier,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			q,
			source,
			matcher,
			notifier,
			append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)...,
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, w := range p.workers {
		close(w.shutdown)
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}

	metrics.UpdateWorkerActiveCount(0)
}

// Shutdown drains the queue and stops the pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue so no new jobs are accepted.
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	close(p.shutdown)
	for _, w := range p.workers {
		close(w.shutdown)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	metrics.UpdateWorkerActiveCount(0)
	return nil
}
