package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUnknownTemplate      = errors.New("unknown notification template")
	// ErrAlreadyClaimed means another dispatcher finished the outbox row first.
	ErrAlreadyClaimed = errors.New("outbox event already dispatched")
)
