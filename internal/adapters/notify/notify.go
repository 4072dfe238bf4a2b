// Package notify delivers match notifications to report owners. The
// default implementation is an in-memory inbox that callers poll over
// the HTTP API; swapping in push delivery (email, webhooks) only
// requires another Notifier.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rehound/rehound/pkg/metrics"
)

// Notification tells a report owner that another report matched theirs.
type Notification struct {
	ID              string    `json:"id"`
	RecipientUserID string    `json:"recipient_user_id"`
	ReportID        string    `json:"report_id"`
	MatchedReportID string    `json:"matched_report_id"`
	ScorePercent    int       `json:"score_percent"`
	CreatedAt       time.Time `json:"created_at"`
}

// Notifier delivers a single notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

const defaultMaxPerUser = 100

// Inbox is an in-memory Notifier that stores notifications per
// recipient, newest first. Re-running the matcher over the same data
// produces the same pairs, so the inbox suppresses duplicates keyed on
// recipient and report pair instead of piling up repeats.
type Inbox struct {
	mu         sync.RWMutex
	byUser     map[string][]Notification
	seen       map[pairKey]struct{}
	maxPerUser int
	newID      func() string
	now        func() time.Time
}

type pairKey struct {
	recipient string
	report    string
	matched   string
}

// NewInbox creates an inbox with the given options applied.
func NewInbox(opts ...InboxOption) *Inbox {
	in := &Inbox{
		byUser:     make(map[string][]Notification),
		seen:       make(map[pairKey]struct{}),
		maxPerUser: defaultMaxPerUser,
		newID:      uuid.NewString,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Notify stores the notification in the recipient's inbox. A repeat of
// an already delivered report pair is dropped silently; idempotent
// match re-runs must not spam owners.
func (in *Inbox) Notify(_ context.Context, n Notification) error {
	if n.RecipientUserID == "" {
		metrics.RecordNotificationError()
		return ErrNoRecipient
	}
	if n.ReportID == "" || n.MatchedReportID == "" {
		metrics.RecordNotificationError()
		return ErrNoReport
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	key := pairKey{recipient: n.RecipientUserID, report: n.ReportID, matched: n.MatchedReportID}
	if _, dup := in.seen[key]; dup {
		return nil
	}
	in.seen[key] = struct{}{}

	if n.ID == "" {
		n.ID = in.newID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = in.now()
	}

	list := in.byUser[n.RecipientUserID]
	list = append([]Notification{n}, list...)
	if in.maxPerUser > 0 && len(list) > in.maxPerUser {
		list = list[:in.maxPerUser]
	}
	in.byUser[n.RecipientUserID] = list

	metrics.RecordNotificationSent()
	return nil
}

// NotificationsFor returns the recipient's notifications, newest
// first. The returned slice is a copy.
func (in *Inbox) NotificationsFor(userID string) []Notification {
	in.mu.RLock()
	defer in.mu.RUnlock()

	list := in.byUser[userID]
	out := make([]Notification, len(list))
	copy(out, list)
	return out
}

// Size reports the total number of stored notifications.
func (in *Inbox) Size() int {
	in.mu.RLock()
	defer in.mu.RUnlock()

	total := 0
	for _, list := range in.byUser {
		total += len(list)
	}
	return total
}
