package notification

import (
	"context"
	"time"

	"gorm.io/gorm"

	database "rental-app-go/internal/db"
	domain "rental-app-go/internal/domain/notification"
)

type OutboxRepository struct {
	db *gorm.DB
}

func NewOutbox(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Append(ctx context.Context, events []domain.OutboxEvent) error {
	if len(events) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).Create(&events).Error
}

func (r *OutboxRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.OutboxEvent, error) {
	query := database.Conn(ctx, r.db).
		Where("status = ? AND next_attempt_at <= ?", domain.OutboxPending, now).
		Order("next_attempt_at asc").
		Order("created_at asc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var events []domain.OutboxEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Claim is a conditional update, so two dispatchers racing on one row
// produce a single notification.
func (r *OutboxRepository) Claim(ctx context.Context, id, notificationID string, at time.Time) error {
	result := database.Conn(ctx, r.db).
		Model(&domain.OutboxEvent{}).
		Where("id = ? AND status = ?", id, domain.OutboxPending).
		Updates(map[string]interface{}{
			"status":          domain.OutboxDispatched,
			"notification_id": notificationID,
			"dispatched_at":   at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrAlreadyClaimed
	}
	return nil
}

func (r *OutboxRepository) RecordFailure(ctx context.Context, id string, attempts int, nextAttemptAt time.Time, lastError string, status domain.OutboxStatus) error {
	return database.Conn(ctx, r.db).
		Model(&domain.OutboxEvent{}).
		Where("id = ? AND status = ?", id, domain.OutboxPending).
		Updates(map[string]interface{}{
			"attempts":        attempts,
			"next_attempt_at": nextAttemptAt,
			"last_error":      lastError,
			"status":          status,
		}).Error
}
