package main

import (
	"context"
	"fmt"

	"rental-app-go/internal/app"

	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			return app.Migrate(cfg, log)
		},
	}

	dispatchCmd = &cobra.Command{
		Use:   "dispatch",
		Short: "Deliver one batch of pending notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, application *app.App) error {
				report, err := application.DispatchOnce(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "dispatched=%d retried=%d failed=%d\n", report.Dispatched, report.Retried, report.Failed)
				return nil
			})
		},
	}

	remindDaysAhead int

	remindCmd = &cobra.Command{
		Use:   "remind",
		Short: "Queue reminders for pending bills due soon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, application *app.App) error {
				sent, err := application.RemindOnce(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reminders=%d\n", sent)
				return nil
			})
		},
	}
)

func init() {
	remindCmd.Flags().IntVar(&remindDaysAhead, "days-ahead", 0, "reminder window in days (defaults to BILLING_REMINDER_DAYS_AHEAD)")
}

func withApp(ctx context.Context, fn func(ctx context.Context, application *app.App) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	if remindDaysAhead > 0 {
		cfg.Billing.ReminderDaysAhead = remindDaysAhead
	}

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Error("app: close failed", "err", err)
		}
	}()
	return fn(ctx, application)
}
