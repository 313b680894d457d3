package viewing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-app-go/internal/db/dbtest"
	domain "rental-app-go/internal/domain/viewing"
)

func TestRescheduleProposalRoundTrip(t *testing.T) {
	repo := NewPostgres(dbtest.Open(t))
	ctx := context.Background()

	tenantID := "tenant-1"
	appointment := &domain.Appointment{
		ID:              uuid.NewString(),
		PropertyID:      "property-1",
		LandlordID:      "landlord-1",
		TenantID:        &tenantID,
		AppointmentDate: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		AppointmentTime: "14:00",
		Source:          domain.DefaultSource,
		Status:          domain.StatusPending,
		Version:         1,
	}
	require.NoError(t, repo.Create(ctx, appointment))

	proposed := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)
	clock := "10:30"
	side := domain.SideLandlord
	appointment.RescheduleDate = &proposed
	appointment.RescheduleTime = &clock
	appointment.RescheduledBy = &side
	appointment.Status = domain.StatusRescheduled
	appointment.Version = 2
	require.NoError(t, repo.Update(ctx, appointment, 1))

	status := domain.StatusRescheduled
	listed, err := repo.ListByTenant(ctx, tenantID, domain.ListFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].RescheduleDate)
	assert.True(t, proposed.Equal(*listed[0].RescheduleDate))
	assert.Equal(t, domain.SideLandlord, *listed[0].RescheduledBy)

	listed[0].RescheduleDate = nil
	listed[0].RescheduleTime = nil
	listed[0].RescheduledBy = nil
	listed[0].Status = domain.StatusConfirmed
	listed[0].Version = 3
	require.NoError(t, repo.Update(ctx, &listed[0], 2))

	stored, err := repo.GetByID(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.RescheduleDate)
	assert.Nil(t, stored.RescheduleTime)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
}
