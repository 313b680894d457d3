package notification

import (
	"context"
	"time"

	"rental-app-go/internal/domain/lifecycle"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OutboxWriter records workflow events as pending outbox rows. It runs inside
// the caller's transaction, so the rows commit or roll back with the state
// change.
type OutboxWriter struct {
	repo OutboxRepository
	now  func() time.Time
}

func NewOutboxWriter(repo OutboxRepository, now func() time.Time) *OutboxWriter {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &OutboxWriter{repo: repo, now: now}
}

func (w *OutboxWriter) Enqueue(ctx context.Context, events ...lifecycle.Event) error {
	if len(events) == 0 {
		return nil
	}
	now := w.now()
	rows := make([]OutboxEvent, 0, len(events))
	for _, event := range events {
		params := make(datatypes.JSONMap, len(event.Params))
		for key, value := range event.Params {
			params[key] = value
		}
		rows = append(rows, OutboxEvent{
			ID:            uuid.NewString(),
			EventKey:      string(event.Key),
			UserID:        event.UserID,
			UserRole:      string(event.UserRole),
			RelatedID:     event.RelatedID,
			RelatedType:   event.RelatedType,
			Params:        params,
			Status:        OutboxPending,
			NextAttemptAt: now,
		})
	}
	return w.repo.Append(ctx, rows)
}
