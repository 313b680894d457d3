package inmemory

import (
	"sync"
	"time"
)

// UnreadCache holds per-user unread notification counts with a TTL.
type UnreadCache struct {
	mu    sync.RWMutex
	now   func() time.Time
	items map[string]unreadItem
}

type unreadItem struct {
	value     int64
	expiresAt time.Time
}

func NewUnreadCache() *UnreadCache {
	return &UnreadCache{
		now:   time.Now,
		items: make(map[string]unreadItem),
	}
}

func (c *UnreadCache) GetByUserID(userID string) (int64, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[userID]
	c.mu.RUnlock()
	if !ok {
		return 0, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[userID]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, userID)
		}
		c.mu.Unlock()
		return 0, false
	}

	return item.value, true
}

func (c *UnreadCache) SetByUserID(userID string, count int64, ttl time.Duration) {
	if ttl <= 0 {
		c.DeleteByUserID(userID)
		return
	}

	c.mu.Lock()
	c.items[userID] = unreadItem{
		value:     count,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *UnreadCache) DeleteByUserID(userID string) {
	c.mu.Lock()
	delete(c.items, userID)
	c.mu.Unlock()
}

func (c *UnreadCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]unreadItem)
	c.mu.Unlock()
}
