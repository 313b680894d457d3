package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryOnConflictStopsOnSuccess(t *testing.T) {
	calls := 0
	err := RetryOnConflict(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return ErrConflict
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryOnConflictGivesUp(t *testing.T) {
	calls := 0
	err := RetryOnConflict(context.Background(), func(ctx context.Context) error {
		calls++
		return fmt.Errorf("update: %w", ErrConflict)
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, conflictAttempts, calls)
}

func TestRetryOnConflictPassesOtherErrors(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := RetryOnConflict(context.Background(), func(ctx context.Context) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestTransitionErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", InvalidTransitionReason("contract", "c-1", "tenant_sign", "signed", "already signed"))

	assert.ErrorIs(t, err, ErrInvalidTransition)
	var transition *TransitionError
	require.True(t, errors.As(err, &transition))
	assert.Equal(t, "signed", transition.From)
	assert.Contains(t, err.Error(), "already signed")
}

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := Invalid("payment_day", "must be between 1 and 31")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "payment_day: must be between 1 and 31", err.Error())
}

type staticDelegation bool

func (d staticDelegation) CanAct(context.Context, string, string, string, Capability) (bool, error) {
	return bool(d), nil
}

func TestAuthorizeLandlordSide(t *testing.T) {
	ctx := context.Background()
	landlord := Actor{UserID: "landlord-1", Role: RoleLandlord}
	admin := Actor{UserID: "admin-1", Role: RoleAdmin}
	member := Actor{UserID: "member-1", Role: RoleAgent}

	assert.NoError(t, AuthorizeLandlordSide(ctx, staticDelegation(false), landlord, "landlord-1", "p", CapabilityRepairs))
	assert.NoError(t, AuthorizeLandlordSide(ctx, staticDelegation(false), admin, "landlord-1", "p", CapabilityRepairs))
	assert.ErrorIs(t, AuthorizeLandlordSide(ctx, staticDelegation(false), member, "landlord-1", "p", CapabilityRepairs), ErrForbidden)
	assert.NoError(t, AuthorizeLandlordSide(ctx, staticDelegation(true), member, "landlord-1", "p", CapabilityRepairs))
	assert.ErrorIs(t, AuthorizeLandlordSide(ctx, staticDelegation(true), Actor{}, "landlord-1", "p", CapabilityRepairs), ErrForbidden)
}

func TestDates(t *testing.T) {
	day, err := ParseDate(" 2024-02-29 ")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", FormatDate(day))
	assert.Equal(t, 29, DaysIn(2024, time.February))
	assert.Equal(t, 28, DaysIn(2023, time.February))
	assert.Equal(t, 31, DaysIn(2024, time.December))

	clock, err := ParseClock("9:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", clock)
	_, err = ParseClock("25:00")
	assert.Error(t, err)

	local := time.Date(2024, 3, 5, 23, 30, 0, 0, time.FixedZone("CST", 8*3600))
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), DateOf(local))
}

func TestWithDefaults(t *testing.T) {
	deps := Deps{}.WithDefaults()
	require.NotNil(t, deps.Now)
	assert.NoError(t, deps.Outbox.Enqueue(context.Background(), Event{Key: EventContractSigned}))
	ok, err := deps.Delegation.CanAct(context.Background(), "l", "u", "p", CapabilityPayments)
	require.NoError(t, err)
	assert.False(t, ok)
}
