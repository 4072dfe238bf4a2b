package notify

import "time"

// InboxOption configures an Inbox.
type InboxOption func(*Inbox)

// WithMaxPerUser caps how many notifications are kept per recipient.
// When the cap is exceeded the oldest entries are dropped. Zero or
// negative means unbounded.
func WithMaxPerUser(n int) InboxOption {
	return func(in *Inbox) {
		in.maxPerUser = n
	}
}

// WithIDGenerator overrides notification ID generation. Useful in
// tests that need deterministic IDs.
func WithIDGenerator(gen func() string) InboxOption {
	return func(in *Inbox) {
		if gen != nil {
			in.newID = gen
		}
	}
}

// WithClock overrides the time source used to stamp notifications.
func WithClock(now func() time.Time) InboxOption {
	return func(in *Inbox) {
		if now != nil {
			in.now = now
		}
	}
}
