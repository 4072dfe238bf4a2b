package worker

import (
	"github.com/rehound/rehound/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithNotifyThreshold sets the minimum composite score a candidate
// needs before the owners are notified. Values outside (0, 1] are
// ignored.
func WithNotifyThreshold(threshold float64) Option {
	return func(w *InMemoryWorker) {
		if threshold > 0 && threshold <= 1 {
			w.threshold = threshold
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}
