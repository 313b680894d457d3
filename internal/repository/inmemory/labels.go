package inmemory

import (
	"sync"
	"time"
)

// LabelCache keeps display strings (property titles, user names) used when
// rendering notification parameters.
type LabelCache struct {
	mu    sync.RWMutex
	now   func() time.Time
	items map[string]labelItem
}

type labelItem struct {
	value     string
	expiresAt time.Time
}

func NewLabelCache() *LabelCache {
	return &LabelCache{
		now:   time.Now,
		items: make(map[string]labelItem),
	}
}

func (c *LabelCache) Get(key string) (string, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[key]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return "", false
	}

	return item.value, true
}

func (c *LabelCache) Set(key, value string, ttl time.Duration) {
	if value == "" || ttl <= 0 {
		c.Delete(key)
		return
	}

	c.mu.Lock()
	c.items[key] = labelItem{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *LabelCache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}
