package notification

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[string]Notification
	createErr     error
	countCalls    int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[string]Notification)}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.notifications[notification.ID] = *notification
	return nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification, ok := r.notifications[id]
	if !ok {
		return nil, ErrNotificationNotFound
	}
	return &notification, nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Notification, 0)
	for _, notification := range r.notifications {
		if notification.UserID != userID || (filter.UnreadOnly && notification.IsRead) {
			continue
		}
		result = append(result, notification)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.countCalls++
	var count int64
	for _, notification := range r.notifications {
		if notification.UserID == userID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification, ok := r.notifications[id]
	if !ok || notification.IsRead {
		return false, nil
	}
	notification.IsRead = true
	notification.ReadAt = &at
	r.notifications[id] = notification
	return true, nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for id, notification := range r.notifications {
		if notification.UserID == userID && !notification.IsRead {
			notification.IsRead = true
			notification.ReadAt = &at
			r.notifications[id] = notification
			count++
		}
	}
	return count, nil
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events map[string]OutboxEvent
	order  []string
}

func newFakeOutboxRepo() *fakeOutboxRepo {
	return &fakeOutboxRepo{events: make(map[string]OutboxEvent)}
}

func (r *fakeOutboxRepo) Append(ctx context.Context, events []OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, event := range events {
		r.events[event.ID] = event
		r.order = append(r.order, event.ID)
	}
	return nil
}

func (r *fakeOutboxRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]OutboxEvent, 0)
	for _, id := range r.order {
		event := r.events[id]
		if event.Status == OutboxPending && !event.NextAttemptAt.After(now) {
			result = append(result, event)
		}
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (r *fakeOutboxRepo) Claim(ctx context.Context, id, notificationID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok || event.Status != OutboxPending {
		return ErrAlreadyClaimed
	}
	event.Status = OutboxDispatched
	event.NotificationID = &notificationID
	event.DispatchedAt = &at
	r.events[id] = event
	return nil
}

func (r *fakeOutboxRepo) RecordFailure(ctx context.Context, id string, attempts int, nextAttemptAt time.Time, lastError string, status OutboxStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return errors.New("missing outbox event")
	}
	event.Attempts = attempts
	event.NextAttemptAt = nextAttemptAt
	event.LastError = &lastError
	event.Status = status
	r.events[id] = event
	return nil
}

func (r *fakeOutboxRepo) get(id string) OutboxEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[id]
}

type fakeCache struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{counts: make(map[string]int64)}
}

func (c *fakeCache) GetByUserID(userID string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	count, ok := c.counts[userID]
	return count, ok
}

func (c *fakeCache) SetByUserID(userID string, count int64, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[userID] = count
}

func (c *fakeCache) DeleteByUserID(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.counts, userID)
}

func (c *fakeCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = make(map[string]int64)
}

type recordingPublisher struct {
	published []Notification
	err       error
}

func (p *recordingPublisher) Publish(ctx context.Context, notification Notification) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, notification)
	return nil
}
