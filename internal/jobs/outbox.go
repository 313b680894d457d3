package jobs

import (
	"context"
	"time"

	"rental-app-go/internal/config"
	"rental-app-go/internal/domain/notification"
	"rental-app-go/pkg/logger"
)

type OutboxDispatcher interface {
	DispatchPending(ctx context.Context) (notification.PassReport, error)
}

// RunOutboxPass dispatches one batch and logs every row that failed.
func RunOutboxPass(ctx context.Context, dispatcher OutboxDispatcher, log logger.Logger) (notification.PassReport, error) {
	report, err := dispatcher.DispatchPending(ctx)
	if err != nil {
		log.InternalError("outbox: pass failed", err)
		return report, err
	}

	for _, failure := range report.Failures {
		if failure.Final {
			log.Error("outbox: event failed permanently", "event_id", failure.EventID, "event", failure.EventKey, "attempts", failure.Attempts, "err", failure.Err)
			continue
		}
		log.Warn("outbox: event will be retried", "event_id", failure.EventID, "event", failure.EventKey, "attempts", failure.Attempts, "err", failure.Err)
	}
	for _, publishErr := range report.PublishErrors {
		log.Warn("outbox: publish failed", "err", publishErr)
	}
	if report.Dispatched > 0 || report.Retried > 0 || report.Failed > 0 {
		log.Info("outbox: pass done", "dispatched", report.Dispatched, "retried", report.Retried, "failed", report.Failed)
	}
	return report, nil
}

// StartOutboxJob runs dispatcher passes on a ticker until ctx is done. The
// returned channel closes once the loop has exited.
func StartOutboxJob(ctx context.Context, cfg config.OutboxConfig, dispatcher OutboxDispatcher, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if !cfg.Enabled {
		log.Info("outbox job disabled")
		close(done)
		return done
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = RunOutboxPass(ctx, dispatcher, log)
			}
		}
	}()
	return done
}
