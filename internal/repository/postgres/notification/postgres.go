package notification

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	database "rental-app-go/internal/db"
	domain "rental-app-go/internal/domain/notification"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, notification *domain.Notification) error {
	return database.Conn(ctx, r.db).Create(notification).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	var notification domain.Notification
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, filter domain.ListFilter) ([]domain.Notification, error) {
	query := database.Conn(ctx, r.db).Where("user_id = ?", userID)
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var notifications []domain.Notification
	if err := query.Order("created_at desc").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *PostgresRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := database.Conn(ctx, r.db).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) MarkAsRead(ctx context.Context, id string, at time.Time) (bool, error) {
	result := database.Conn(ctx, r.db).
		Model(&domain.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) MarkAllAsRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	result := database.Conn(ctx, r.db).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
