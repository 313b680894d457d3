package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-app-go/internal/db/dbtest"
	analyticsdomain "rental-app-go/internal/domain/analytics"
	billingdomain "rental-app-go/internal/domain/billing"
	"rental-app-go/internal/domain/lifecycle"
	billingrepo "rental-app-go/internal/repository/postgres/billing"
)

func date(value string) time.Time {
	parsed, err := lifecycle.ParseDate(value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func seed(t *testing.T, repo *billingrepo.PostgresRepository, propertyID, due string, amount float64, status billingdomain.Status) {
	t.Helper()
	require.NoError(t, repo.CreateBatch(context.Background(), []billingdomain.Payment{{
		ID:          uuid.NewString(),
		ContractID:  uuid.NewString(),
		PropertyID:  propertyID,
		TenantID:    "tenant-1",
		LandlordID:  "landlord-1",
		Amount:      amount,
		PaymentType: billingdomain.PaymentTypeRent,
		DueDate:     date(due),
		Status:      status,
		Version:     1,
	}}))
}

func TestIncomeQueries(t *testing.T) {
	gormDB := dbtest.Open(t)
	bills := billingrepo.NewPostgres(gormDB)
	repo := NewPostgres(gormDB)
	ctx := context.Background()

	seed(t, bills, "property-1", "2026-01-05", 3000, billingdomain.StatusConfirmed)
	seed(t, bills, "property-1", "2026-02-05", 3000, billingdomain.StatusPaid)
	seed(t, bills, "property-2", "2026-02-10", 5000, billingdomain.StatusConfirmed)
	seed(t, bills, "property-2", "2026-03-10", 5000, billingdomain.StatusPending)
	seed(t, bills, "property-2", "2026-06-10", 5000, billingdomain.StatusPending)

	filter := analyticsdomain.IncomeFilter{From: date("2026-01-01"), To: date("2026-03-31")}

	totals, err := repo.Totals(ctx, "landlord-1", filter)
	require.NoError(t, err)
	assert.Equal(t, 8000.0, totals.Collected)
	assert.EqualValues(t, 2, totals.CollectedCount)
	assert.Equal(t, 3000.0, totals.AwaitingAmount)
	assert.EqualValues(t, 1, totals.OutstandingCount)

	scoped := filter
	scoped.PropertyIDs = []string{"property-1"}
	totals, err = repo.Totals(ctx, "landlord-1", scoped)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, totals.Collected)

	entries, err := repo.Entries(ctx, "landlord-1", filter)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "2026-01-05", lifecycle.FormatDate(entries[0].DueDate))

	rows, read, err := repo.TopProperties(ctx, "landlord-1", analyticsdomain.TopPropertiesFilter{From: filter.From, To: filter.To, ResponseCount: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 2, read)
	require.Len(t, rows, 2)
	assert.Equal(t, "property-2", rows[0].PropertyID)
	assert.Equal(t, 5000.0, rows[0].Collected)

	other, err := repo.Totals(ctx, "landlord-2", filter)
	require.NoError(t, err)
	assert.Zero(t, other.Collected)
}

func TestSummaryAndMonthlyAgreeOnBillStates(t *testing.T) {
	gormDB := dbtest.Open(t)
	bills := billingrepo.NewPostgres(gormDB)
	service := analyticsdomain.NewService(NewPostgres(gormDB), nil)
	ctx := context.Background()

	seed(t, bills, "property-1", "2026-01-05", 4500, billingdomain.StatusPaid)
	seed(t, bills, "property-1", "2026-01-20", 1200, billingdomain.StatusPending)
	seed(t, bills, "property-2", "2026-01-25", 3000, billingdomain.StatusConfirmed)

	filter := analyticsdomain.IncomeFilter{From: date("2026-01-01"), To: date("2026-01-31")}
	summary, err := service.Summary(ctx, "landlord-1", filter)
	require.NoError(t, err)
	monthly, err := service.Monthly(ctx, "landlord-1", filter)
	require.NoError(t, err)
	require.Len(t, monthly, 1)

	assert.Equal(t, 4500.0, summary.Awaiting)
	assert.Equal(t, 1200.0, summary.Outstanding)
	assert.Equal(t, summary.Awaiting, monthly[0].Awaiting)
	assert.Equal(t, summary.Outstanding, monthly[0].Outstanding)
	assert.Equal(t, summary.Collected, monthly[0].Collected)
	assert.EqualValues(t, 3, monthly[0].Count)
}
