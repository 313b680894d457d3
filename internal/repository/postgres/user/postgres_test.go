package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-app-go/internal/db/dbtest"
	domain "rental-app-go/internal/domain/user"
)

func TestUpsertKeepsStoredRole(t *testing.T) {
	repo := NewPostgres(dbtest.Open(t))
	ctx := context.Background()

	name := "王房东"
	require.NoError(t, repo.UpsertProfile(ctx, &domain.Profile{UserID: "user-1", Name: &name, Role: "landlord"}))

	email := "landlord@example.com"
	require.NoError(t, repo.UpsertProfile(ctx, &domain.Profile{UserID: "user-1", Email: &email, Role: "tenant"}))

	profile, err := repo.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "landlord", profile.Role)
	assert.Equal(t, name, profile.DisplayName())
	require.NotNil(t, profile.Email)
	assert.Equal(t, email, *profile.Email)

	_, err = repo.GetProfile(ctx, "user-2")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestLocaleIsKeptUntilTokenCarriesOne(t *testing.T) {
	service := domain.NewService(NewPostgres(dbtest.Open(t)))
	ctx := context.Background()

	assert.Empty(t, service.Locale(ctx, "user-1"))

	require.NoError(t, service.UpsertProfile(ctx, "user-1", "", "Ann", "", "tenant", "en-us"))
	assert.Equal(t, "en-US", service.Locale(ctx, "user-1"))

	require.NoError(t, service.UpsertProfile(ctx, "user-1", "", "Ann", "", "tenant", ""))
	assert.Equal(t, "en-US", service.Locale(ctx, "user-1"))

	require.NoError(t, service.UpsertProfile(ctx, "user-1", "", "Ann", "", "tenant", "not a locale!"))
	assert.Equal(t, "en-US", service.Locale(ctx, "user-1"))

	require.NoError(t, service.UpsertProfile(ctx, "user-1", "", "Ann", "", "tenant", "zh"))
	assert.Equal(t, "zh", service.Locale(ctx, "user-1"))
}
