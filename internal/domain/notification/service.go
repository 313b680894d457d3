package notification

import (
	"context"
	"strings"
	"time"

	"rental-app-go/internal/domain/lifecycle"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	defaultUnreadTTL = 30 * time.Second
)

type ServiceConfig struct {
	UnreadTTL time.Duration
	Now       func() time.Time
}

type Service struct {
	repo  Repository
	cache UnreadCache
	cfg   ServiceConfig
}

func NewService(repo Repository, cache UnreadCache, cfg ServiceConfig) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	// A negative TTL disables caching.
	if cfg.UnreadTTL == 0 {
		cfg.UnreadTTL = defaultUnreadTTL
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{repo: repo, cache: cache, cfg: cfg}
}

// Create appends a notification directly, bypassing the outbox.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Notification, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.Title = strings.TrimSpace(input.Title)
	if input.UserID == "" {
		return nil, lifecycle.Invalid("user_id", "is required")
	}
	if input.Title == "" {
		return nil, lifecycle.Invalid("title", "is required")
	}

	notification := Notification{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		UserRole:    input.UserRole,
		Type:        input.Type,
		Title:       input.Title,
		Content:     input.Content,
		RelatedID:   input.RelatedID,
		RelatedType: input.RelatedType,
		CreatedAt:   s.cfg.Now(),
	}
	if err := s.repo.Create(ctx, &notification); err != nil {
		return nil, err
	}
	s.cache.DeleteByUserID(notification.UserID)
	return &notification, nil
}

func (s *Service) ListByUser(ctx context.Context, actor lifecycle.Actor, filter ListFilter) ([]Notification, error) {
	if actor.UserID == "" {
		return nil, lifecycle.ErrForbidden
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	return s.repo.ListByUser(ctx, actor.UserID, filter)
}

func (s *Service) UnreadCount(ctx context.Context, actor lifecycle.Actor) (int64, error) {
	if actor.UserID == "" {
		return 0, lifecycle.ErrForbidden
	}
	if count, ok := s.cache.GetByUserID(actor.UserID); ok {
		return count, nil
	}
	count, err := s.repo.CountUnread(ctx, actor.UserID)
	if err != nil {
		return 0, err
	}
	s.cache.SetByUserID(actor.UserID, count, s.cfg.UnreadTTL)
	return count, nil
}

// MarkAsRead is idempotent: marking a read notification again succeeds
// without changes.
func (s *Service) MarkAsRead(ctx context.Context, actor lifecycle.Actor, id string) (*Notification, error) {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Is(notification.UserID) {
		return nil, ErrNotificationNotFound
	}
	if notification.IsRead {
		return notification, nil
	}

	now := s.cfg.Now()
	changed, err := s.repo.MarkAsRead(ctx, id, now)
	if err != nil {
		return nil, err
	}
	s.cache.DeleteByUserID(notification.UserID)
	if changed {
		notification.IsRead = true
		notification.ReadAt = &now
		return notification, nil
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) MarkAllAsRead(ctx context.Context, actor lifecycle.Actor) (int64, error) {
	if actor.UserID == "" {
		return 0, lifecycle.ErrForbidden
	}
	count, err := s.repo.MarkAllAsRead(ctx, actor.UserID, s.cfg.Now())
	if err != nil {
		return 0, err
	}
	s.cache.DeleteByUserID(actor.UserID)
	return count, nil
}
