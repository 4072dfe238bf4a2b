package repository

import "time"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithIDGenerator overrides the report ID generator. Used by tests that need
// deterministic IDs.
func WithIDGenerator(gen func() string) Option {
	return func(s *MemStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithClock overrides the store's time source.
func WithClock(now func() time.Time) Option {
	return func(s *MemStore) {
		if now != nil {
			s.now = now
		}
	}
}
