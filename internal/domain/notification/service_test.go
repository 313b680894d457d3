package notification

import (
	"context"
	"testing"
	"time"

	"rental-app-go/internal/domain/lifecycle"
	"rental-app-go/internal/domain/lifecycle/lifecycletest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	landlord = lifecycle.Actor{UserID: "landlord-1", Role: lifecycle.RoleLandlord}
	tenant   = lifecycle.Actor{UserID: "tenant-1", Role: lifecycle.RoleTenant}
)

func newTestService() (*Service, *fakeNotificationRepo, *fakeCache, *lifecycletest.Clock) {
	repo := newFakeNotificationRepo()
	cache := newFakeCache()
	clock := lifecycletest.NewClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	return NewService(repo, cache, ServiceConfig{Now: clock.Now}), repo, cache, clock
}

func TestCreateAndList(t *testing.T) {
	service, _, _, clock := newTestService()
	ctx := context.Background()

	first, err := service.Create(ctx, CreateInput{UserID: "landlord-1", UserRole: "landlord", Type: "custom", Title: "one"})
	require.NoError(t, err)
	assert.False(t, first.IsRead)
	clock.Advance(time.Minute)
	_, err = service.Create(ctx, CreateInput{UserID: "landlord-1", UserRole: "landlord", Type: "custom", Title: "two"})
	require.NoError(t, err)
	_, err = service.Create(ctx, CreateInput{UserID: "tenant-1", UserRole: "tenant", Type: "custom", Title: "other"})
	require.NoError(t, err)

	list, err := service.ListByUser(ctx, landlord, ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "two", list[0].Title)

	_, err = service.Create(ctx, CreateInput{UserID: "landlord-1"})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)
}

func TestUnreadCountIsCachedAndInvalidated(t *testing.T) {
	service, repo, _, _ := newTestService()
	ctx := context.Background()
	_, err := service.Create(ctx, CreateInput{UserID: "landlord-1", Title: "one"})
	require.NoError(t, err)

	count, err := service.UnreadCount(ctx, landlord)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	count, err = service.UnreadCount(ctx, landlord)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 1, repo.countCalls)

	_, err = service.Create(ctx, CreateInput{UserID: "landlord-1", Title: "two"})
	require.NoError(t, err)
	count, err = service.UnreadCount(ctx, landlord)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, 2, repo.countCalls)
}

func TestMarkAsReadIsMonotonic(t *testing.T) {
	service, _, _, _ := newTestService()
	ctx := context.Background()
	created, err := service.Create(ctx, CreateInput{UserID: "landlord-1", Title: "one"})
	require.NoError(t, err)

	_, err = service.MarkAsRead(ctx, tenant, created.ID)
	require.ErrorIs(t, err, ErrNotificationNotFound)

	read, err := service.MarkAsRead(ctx, landlord, created.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	require.NotNil(t, read.ReadAt)

	again, err := service.MarkAsRead(ctx, landlord, created.ID)
	require.NoError(t, err)
	assert.True(t, again.IsRead)
	assert.Equal(t, *read.ReadAt, *again.ReadAt)

	count, err := service.UnreadCount(ctx, landlord)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkAllAsRead(t *testing.T) {
	service, _, _, _ := newTestService()
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		_, err := service.Create(ctx, CreateInput{UserID: "landlord-1", Title: title})
		require.NoError(t, err)
	}
	_, err := service.Create(ctx, CreateInput{UserID: "tenant-1", Title: "d"})
	require.NoError(t, err)

	_, err = service.UnreadCount(ctx, landlord)
	require.NoError(t, err)

	changed, err := service.MarkAllAsRead(ctx, landlord)
	require.NoError(t, err)
	assert.Equal(t, int64(3), changed)

	count, err := service.UnreadCount(ctx, landlord)
	require.NoError(t, err)
	assert.Zero(t, count)
	count, err = service.UnreadCount(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	unread, err := service.ListByUser(ctx, landlord, ListFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unread)
}
