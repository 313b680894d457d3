package jobs

import (
	"context"
	"time"

	"rental-app-go/internal/config"
	"rental-app-go/pkg/logger"
)

type ReminderSender interface {
	SendDueReminders(ctx context.Context, daysAhead int) (int, error)
}

type ReminderObserver interface {
	RemindersSent(count int)
}

const reminderTimeout = time.Minute

func RunReminderPass(ctx context.Context, sender ReminderSender, daysAhead int, observer ReminderObserver, log logger.Logger) (int, error) {
	sent, err := sender.SendDueReminders(ctx, daysAhead)
	if err != nil {
		log.InternalError("reminders: pass failed", err, "days_ahead", daysAhead)
		return sent, err
	}
	if observer != nil && sent > 0 {
		observer.RemindersSent(sent)
	}
	if sent > 0 {
		log.Info("reminders: queued", "count", sent, "days_ahead", daysAhead)
	}
	return sent, nil
}

func StartReminderJob(ctx context.Context, cfg config.BillingConfig, sender ReminderSender, observer ReminderObserver, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	interval := cfg.ReminderInterval
	if interval <= 0 {
		log.Info("reminder job disabled")
		close(done)
		return done
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
				tickCtx, cancel := context.WithTimeout(ctx, reminderTimeout)
				_, _ = RunReminderPass(tickCtx, sender, cfg.ReminderDaysAhead, observer, log)
				cancel()
			}
		}
	}()
	return done
}
