package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"rental-app-go/internal/db/dbtest"
	domain "rental-app-go/internal/domain/notification"
)

func newNotification(userID string, createdAt time.Time) *domain.Notification {
	return &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserRole:  "tenant",
		Type:      "viewingConfirmed",
		Title:     "看房已确认",
		Content:   "您预约的看房已确认",
		CreatedAt: createdAt,
	}
}

func TestReadFlagIsOneWay(t *testing.T) {
	repo := NewPostgres(dbtest.Open(t))
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	first := newNotification("user-1", base)
	second := newNotification("user-1", base.Add(time.Minute))
	other := newNotification("user-2", base)
	for _, n := range []*domain.Notification{first, second, other} {
		require.NoError(t, repo.Create(ctx, n))
	}

	count, err := repo.CountUnread(ctx, "user-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	changed, err := repo.MarkAsRead(ctx, first.ID, base.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkAsRead(ctx, first.ID, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)

	unread, err := repo.ListByUser(ctx, "user-1", domain.ListFilter{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, second.ID, unread[0].ID)

	marked, err := repo.MarkAllAsRead(ctx, "user-1", base.Add(3*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, marked)

	count, err = repo.CountUnread(ctx, "user-2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	all, err := repo.ListByUser(ctx, "user-1", domain.ListFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
}

func TestOutboxClaimOnlyOnce(t *testing.T) {
	repo := NewOutbox(dbtest.Open(t))
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	due := domain.OutboxEvent{
		ID:            uuid.NewString(),
		EventKey:      "paymentReceived",
		UserID:        "landlord-1",
		UserRole:      "landlord",
		Params:        datatypes.JSONMap{"Amount": "4500.00"},
		Status:        domain.OutboxPending,
		NextAttemptAt: now.Add(-time.Minute),
	}
	later := due
	later.ID = uuid.NewString()
	later.NextAttemptAt = now.Add(time.Hour)
	require.NoError(t, repo.Append(ctx, []domain.OutboxEvent{due, later}))

	listed, err := repo.ListDue(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, due.ID, listed[0].ID)
	assert.Equal(t, "4500.00", listed[0].Params["Amount"])

	require.NoError(t, repo.Claim(ctx, due.ID, uuid.NewString(), now))
	assert.ErrorIs(t, repo.Claim(ctx, due.ID, uuid.NewString(), now), domain.ErrAlreadyClaimed)

	listed, err = repo.ListDue(ctx, now, 10)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestOutboxRecordFailureReschedules(t *testing.T) {
	repo := NewOutbox(dbtest.Open(t))
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	event := domain.OutboxEvent{
		ID:            uuid.NewString(),
		EventKey:      "repairCompleted",
		UserID:        "tenant-1",
		UserRole:      "tenant",
		Status:        domain.OutboxPending,
		NextAttemptAt: now.Add(-time.Second),
	}
	require.NoError(t, repo.Append(ctx, []domain.OutboxEvent{event}))

	require.NoError(t, repo.RecordFailure(ctx, event.ID, 1, now.Add(time.Minute), "store down", domain.OutboxPending))

	listed, err := repo.ListDue(ctx, now, 10)
	require.NoError(t, err)
	assert.Empty(t, listed)

	listed, err = repo.ListDue(ctx, now.Add(2*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 1, listed[0].Attempts)
	require.NotNil(t, listed[0].LastError)
	assert.Equal(t, "store down", *listed[0].LastError)
}
