package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-app-go/internal/config"
	"rental-app-go/internal/domain/notification"
	"rental-app-go/pkg/logger"
)

type countingDispatcher struct {
	calls  atomic.Int32
	report notification.PassReport
	err    error
}

func (d *countingDispatcher) DispatchPending(context.Context) (notification.PassReport, error) {
	d.calls.Add(1)
	return d.report, d.err
}

type stubSender struct {
	sent      int
	err       error
	daysAhead int
}

func (s *stubSender) SendDueReminders(_ context.Context, daysAhead int) (int, error) {
	s.daysAhead = daysAhead
	return s.sent, s.err
}

type recordingObserver struct {
	total int
}

func (o *recordingObserver) RemindersSent(count int) {
	o.total += count
}

func TestRunOutboxPassReturnsReport(t *testing.T) {
	dispatcher := &countingDispatcher{report: notification.PassReport{
		Dispatched: 2,
		Retried:    1,
		Failures:   []notification.DispatchFailure{{EventID: "e-1", EventKey: "paymentReceived", Attempts: 1, Err: errors.New("store down")}},
	}}

	report, err := RunOutboxPass(context.Background(), dispatcher, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Dispatched)
	assert.Len(t, report.Failures, 1)
}

func TestRunOutboxPassPropagatesListError(t *testing.T) {
	dispatcher := &countingDispatcher{err: errors.New("db unavailable")}

	_, err := RunOutboxPass(context.Background(), dispatcher, logger.NewNop())
	assert.Error(t, err)
}

func TestStartOutboxJobStopsWithContext(t *testing.T) {
	dispatcher := &countingDispatcher{}
	ctx, cancel := context.WithCancel(context.Background())

	done := StartOutboxJob(ctx, config.OutboxConfig{Enabled: true, Interval: 5 * time.Millisecond}, dispatcher, logger.NewNop())
	require.Eventually(t, func() bool { return dispatcher.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("outbox job did not stop")
	}
}

func TestStartOutboxJobDisabled(t *testing.T) {
	done := StartOutboxJob(context.Background(), config.OutboxConfig{Enabled: false}, &countingDispatcher{}, logger.NewNop())
	_, open := <-done
	assert.False(t, open)
}

func TestRunReminderPassReportsCount(t *testing.T) {
	sender := &stubSender{sent: 3}
	observer := &recordingObserver{}

	sent, err := RunReminderPass(context.Background(), sender, 5, observer, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, sent)
	assert.Equal(t, 5, sender.daysAhead)
	assert.Equal(t, 3, observer.total)
}
