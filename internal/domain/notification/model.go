package notification

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	UserID      string `gorm:"type:uuid;not null;index:idx_notifications_user_created,priority:1"`
	UserRole    string `gorm:"type:varchar(16);not null"`
	Type        string `gorm:"type:varchar(32);not null"`
	Title       string `gorm:"not null"`
	Content     string `gorm:"type:text;not null"`
	RelatedID   string `gorm:"not null;default:''"`
	RelatedType string `gorm:"type:varchar(16);not null;default:''"`
	IsRead      bool   `gorm:"not null;default:false"`
	ReadAt      *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_notifications_user_created,priority:2"`
}

type OutboxStatus string

const (
	OutboxPending    OutboxStatus = "pending"
	OutboxDispatched OutboxStatus = "dispatched"
	OutboxFailed     OutboxStatus = "failed"
)

// OutboxEvent is a notification request recorded in the same transaction as
// the state change that produced it.
type OutboxEvent struct {
	ID             string            `gorm:"type:uuid;primaryKey"`
	EventKey       string            `gorm:"type:varchar(32);not null"`
	UserID         string            `gorm:"type:uuid;not null"`
	UserRole       string            `gorm:"type:varchar(16);not null"`
	RelatedID      string            `gorm:"not null;default:''"`
	RelatedType    string            `gorm:"type:varchar(16);not null;default:''"`
	Params         datatypes.JSONMap `gorm:"type:json"`
	Status         OutboxStatus      `gorm:"type:varchar(16);not null;index:idx_outbox_due,priority:1"`
	Attempts       int               `gorm:"not null;default:0"`
	NextAttemptAt  time.Time         `gorm:"not null;index:idx_outbox_due,priority:2"`
	LastError      *string           `gorm:"type:text"`
	NotificationID *string           `gorm:"type:uuid"`
	DispatchedAt   *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (OutboxEvent) TableName() string {
	return "outbox_events"
}

func (e OutboxEvent) params() map[string]string {
	result := make(map[string]string, len(e.Params))
	for key, value := range e.Params {
		if s, ok := value.(string); ok {
			result[key] = s
		}
	}
	return result
}

type CreateInput struct {
	UserID      string
	UserRole    string
	Type        string
	Title       string
	Content     string
	RelatedID   string
	RelatedType string
}

type ListFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}
