// Package lifecycletest provides in-memory collaborators for workflow tests.
package lifecycletest

import (
	"context"
	"sync"
	"time"

	"rental-app-go/internal/domain/lifecycle"
)

// Outbox records enqueued events.
type Outbox struct {
	mu     sync.Mutex
	Events []lifecycle.Event
	Err    error
}

func (o *Outbox) Enqueue(ctx context.Context, events ...lifecycle.Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return o.Err
	}
	o.Events = append(o.Events, events...)
	return nil
}

func (o *Outbox) Keys() []lifecycle.EventKey {
	o.mu.Lock()
	defer o.mu.Unlock()
	keys := make([]lifecycle.EventKey, 0, len(o.Events))
	for _, event := range o.Events {
		keys = append(keys, event.Key)
	}
	return keys
}

func (o *Outbox) Last() lifecycle.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.Events) == 0 {
		return lifecycle.Event{}
	}
	return o.Events[len(o.Events)-1]
}

func (o *Outbox) Reset() {
	o.mu.Lock()
	o.Events = nil
	o.mu.Unlock()
}

// Directory serves fixed titles and names.
type Directory struct {
	Titles map[string]string
	Names  map[string]string
}

func (d Directory) PropertyTitle(ctx context.Context, propertyID string) string {
	return d.Titles[propertyID]
}

func (d Directory) DisplayName(ctx context.Context, userID string) string {
	return d.Names[userID]
}

// Delegation grants capabilities per member id.
type Delegation struct {
	Grants map[string][]lifecycle.Capability
}

func (d Delegation) CanAct(ctx context.Context, landlordID, userID, propertyID string, capability lifecycle.Capability) (bool, error) {
	for _, granted := range d.Grants[userID] {
		if granted == capability {
			return true, nil
		}
	}
	return false, nil
}

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
