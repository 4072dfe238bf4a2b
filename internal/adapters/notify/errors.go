package notify

import "errors"

var (
	// ErrNoRecipient is returned when a notification names no recipient.
	ErrNoRecipient = errors.New("notification has no recipient")
	// ErrNoReport is returned when a notification is missing either side
	// of the matched report pair.
	ErrNoReport = errors.New("notification has no report pair")
)
