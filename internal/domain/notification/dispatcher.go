package notification

import (
	"context"
	"errors"
	"time"

	"rental-app-go/internal/domain/lifecycle"

	"github.com/google/uuid"
)

type Renderer interface {
	Render(locale string, key lifecycle.EventKey, params map[string]string) (Message, error)
}

// Publisher pushes a stored notification to live subscribers. Delivery is
// best effort; the stored row is the source of truth.
type Publisher interface {
	Publish(ctx context.Context, notification Notification) error
}

// LocaleResolver returns the preferred locale of a recipient, or "" when
// the configured default applies.
type LocaleResolver interface {
	Locale(ctx context.Context, userID string) string
}

type DispatchObserver interface {
	Dispatched(eventKey string)
	DispatchFailed(eventKey string, final bool)
}

type DispatcherConfig struct {
	BatchSize   int
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	Locale      string
}

const (
	defaultBatchSize   = 100
	defaultMaxAttempts = 5
	defaultBaseBackoff = 5 * time.Second
	defaultMaxBackoff  = 10 * time.Minute
)

func normalizeDispatcherConfig(cfg DispatcherConfig) DispatcherConfig {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = defaultBaseBackoff
	}
	if cfg.MaxBackoff < cfg.BaseBackoff {
		cfg.MaxBackoff = defaultMaxBackoff
	}
	return cfg
}

type DispatcherDeps struct {
	Notifications Repository
	Outbox        OutboxRepository
	Renderer      Renderer
	Tx            lifecycle.Transactor
	Cache         UnreadCache
	Publisher     Publisher
	Locales       LocaleResolver
	Observer      DispatchObserver
	Now           func() time.Time
}

// DispatchFailure describes one outbox row that could not be delivered.
type DispatchFailure struct {
	EventID  string
	EventKey string
	Attempts int
	Final    bool
	Err      error
}

// Dispatcher turns pending outbox rows into notifications. A failure is
// recorded on the outbox row only and never touches the workflow entity that
// produced it.
type Dispatcher struct {
	deps DispatcherDeps
	cfg  DispatcherConfig
}

func NewDispatcher(deps DispatcherDeps, cfg DispatcherConfig) *Dispatcher {
	if deps.Tx == nil {
		deps.Tx = lifecycle.InlineTransactor{}
	}
	if deps.Cache == nil {
		deps.Cache = noopCache{}
	}
	if deps.Observer == nil {
		deps.Observer = nopDispatchObserver{}
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Dispatcher{deps: deps, cfg: normalizeDispatcherConfig(cfg)}
}

// PassReport summarizes one dispatcher pass.
type PassReport struct {
	Dispatched    int
	Retried       int
	Failed        int
	Failures      []DispatchFailure
	PublishErrors []error
}

// DispatchPending processes one batch of due outbox rows.
func (d *Dispatcher) DispatchPending(ctx context.Context) (PassReport, error) {
	var report PassReport
	now := d.deps.Now()
	events, err := d.deps.Outbox.ListDue(ctx, now, d.cfg.BatchSize)
	if err != nil {
		return report, err
	}

	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		notification, err := d.deliver(ctx, event, now)
		switch {
		case errors.Is(err, ErrAlreadyClaimed):
			continue
		case err != nil:
			failure := d.fail(ctx, event, err, now)
			report.Failures = append(report.Failures, failure)
			if failure.Final {
				report.Failed++
			} else {
				report.Retried++
			}
			d.deps.Observer.DispatchFailed(event.EventKey, failure.Final)
			continue
		}

		report.Dispatched++
		d.deps.Observer.Dispatched(event.EventKey)
		d.deps.Cache.DeleteByUserID(notification.UserID)
		if d.deps.Publisher != nil {
			if err := d.deps.Publisher.Publish(ctx, *notification); err != nil {
				report.PublishErrors = append(report.PublishErrors, err)
			}
		}
	}
	return report, nil
}

func (d *Dispatcher) deliver(ctx context.Context, event OutboxEvent, now time.Time) (*Notification, error) {
	message, err := d.deps.Renderer.Render(d.recipientLocale(ctx, event.UserID), lifecycle.EventKey(event.EventKey), event.params())
	if err != nil {
		return nil, err
	}

	notification := Notification{
		ID:          uuid.NewString(),
		UserID:      event.UserID,
		UserRole:    event.UserRole,
		Type:        event.EventKey,
		Title:       message.Title,
		Content:     message.Content,
		RelatedID:   event.RelatedID,
		RelatedType: event.RelatedType,
		CreatedAt:   now,
	}
	err = d.deps.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := d.deps.Outbox.Claim(ctx, event.ID, notification.ID, now); err != nil {
			return err
		}
		return d.deps.Notifications.Create(ctx, &notification)
	})
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (d *Dispatcher) recipientLocale(ctx context.Context, userID string) string {
	if d.deps.Locales != nil {
		if locale := d.deps.Locales.Locale(ctx, userID); locale != "" {
			return locale
		}
	}
	return d.cfg.Locale
}

func (d *Dispatcher) fail(ctx context.Context, event OutboxEvent, cause error, now time.Time) DispatchFailure {
	attempts := event.Attempts + 1
	final := attempts >= d.cfg.MaxAttempts || errors.Is(cause, ErrUnknownTemplate)
	status := OutboxPending
	if final {
		status = OutboxFailed
	}
	failure := DispatchFailure{
		EventID:  event.ID,
		EventKey: event.EventKey,
		Attempts: attempts,
		Final:    final,
		Err:      cause,
	}
	if err := d.deps.Outbox.RecordFailure(ctx, event.ID, attempts, now.Add(d.backoff(attempts)), cause.Error(), status); err != nil {
		failure.Err = errors.Join(cause, err)
	}
	return failure
}

func (d *Dispatcher) backoff(attempts int) time.Duration {
	delay := d.cfg.BaseBackoff
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= d.cfg.MaxBackoff {
			return d.cfg.MaxBackoff
		}
	}
	return delay
}

type nopDispatchObserver struct{}

func (nopDispatchObserver) Dispatched(string) {}

func (nopDispatchObserver) DispatchFailed(string, bool) {}
