package notification

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	// MarkAsRead flips is_read for an unread notification and reports whether
	// a row changed.
	MarkAsRead(ctx context.Context, id string, at time.Time) (bool, error)
	MarkAllAsRead(ctx context.Context, userID string, at time.Time) (int64, error)
}

type OutboxRepository interface {
	Append(ctx context.Context, events []OutboxEvent) error
	ListDue(ctx context.Context, now time.Time, limit int) ([]OutboxEvent, error)
	// Claim marks a pending row dispatched; it returns ErrAlreadyClaimed when
	// the row is no longer pending.
	Claim(ctx context.Context, id, notificationID string, at time.Time) error
	RecordFailure(ctx context.Context, id string, attempts int, nextAttemptAt time.Time, lastError string, status OutboxStatus) error
}
