package billing

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"rental-app-go/internal/domain/lifecycle"
	"rental-app-go/internal/domain/lifecycle/lifecycletest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaymentRepo struct {
	payments map[string]Payment
	// conflicts makes the next n updates report a stale version.
	conflicts int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]Payment)}
}

func scheduleKey(p Payment) string {
	return p.ContractID + "|" + lifecycle.FormatDate(p.DueDate) + "|" + string(p.PaymentType)
}

func (r *fakePaymentRepo) CreateBatch(ctx context.Context, payments []Payment) error {
	taken := make(map[string]struct{}, len(r.payments))
	for _, existing := range r.payments {
		taken[scheduleKey(existing)] = struct{}{}
	}
	for _, payment := range payments {
		if _, ok := taken[scheduleKey(payment)]; ok {
			continue
		}
		taken[scheduleKey(payment)] = struct{}{}
		r.payments[payment.ID] = payment
	}
	return nil
}

func (r *fakePaymentRepo) GetByID(ctx context.Context, id string) (*Payment, error) {
	payment, ok := r.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	return &payment, nil
}

func (r *fakePaymentRepo) ListByContract(ctx context.Context, contractID string, paymentType PaymentType) ([]Payment, error) {
	return r.filter(func(p Payment) bool {
		return p.ContractID == contractID && p.PaymentType == paymentType
	}), nil
}

func (r *fakePaymentRepo) ListByTenant(ctx context.Context, tenantID string, filter ListFilter) ([]Payment, error) {
	return r.filter(func(p Payment) bool {
		return p.TenantID == tenantID && matchesStatus(p, filter)
	}), nil
}

func (r *fakePaymentRepo) ListByLandlord(ctx context.Context, landlordID string, filter ListFilter) ([]Payment, error) {
	return r.filter(func(p Payment) bool {
		return p.LandlordID == landlordID && matchesStatus(p, filter)
	}), nil
}

func (r *fakePaymentRepo) ListDueForReminder(ctx context.Context, dueOnOrBefore time.Time, limit int) ([]Payment, error) {
	return r.filter(func(p Payment) bool {
		return p.Status == StatusPending && p.RemindedAt == nil && !p.DueDate.After(dueOnOrBefore)
	}), nil
}

func (r *fakePaymentRepo) Update(ctx context.Context, payment *Payment, expectedVersion int) error {
	if r.conflicts > 0 {
		r.conflicts--
		return lifecycle.ErrConflict
	}
	current, ok := r.payments[payment.ID]
	if !ok {
		return ErrPaymentNotFound
	}
	if current.Version != expectedVersion {
		return lifecycle.ErrConflict
	}
	r.payments[payment.ID] = *payment
	return nil
}

func (r *fakePaymentRepo) filter(keep func(Payment) bool) []Payment {
	result := make([]Payment, 0)
	for _, payment := range r.payments {
		if keep(payment) {
			result = append(result, payment)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DueDate.Before(result[j].DueDate) })
	return result
}

func matchesStatus(p Payment, filter ListFilter) bool {
	if filter.Status == nil {
		return true
	}
	return p.EffectiveStatus(filter.AsOf) == *filter.Status
}

func date(value string) time.Time {
	parsed, err := lifecycle.ParseDate(value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func sampleTerms() ContractTerms {
	return ContractTerms{
		ContractID: "contract-1",
		PropertyID: "property-1",
		TenantID:   "tenant-1",
		LandlordID: "landlord-1",
		RentAmount: 4500,
		PaymentDay: 5,
		StartDate:  date("2024-01-15"),
		EndDate:    date("2024-04-15"),
	}
}

type harness struct {
	repo    *fakePaymentRepo
	outbox  *lifecycletest.Outbox
	clock   *lifecycletest.Clock
	service *Service
}

func newHarness(now time.Time) *harness {
	repo := newFakePaymentRepo()
	outbox := &lifecycletest.Outbox{}
	clock := lifecycletest.NewClock(now)
	service := NewService(repo, lifecycle.Deps{
		Outbox: outbox,
		Directory: lifecycletest.Directory{
			Titles: map[string]string{"property-1": "阳光公寓 3A"},
			Names:  map[string]string{"tenant-1": "张三"},
		},
		Delegation: lifecycletest.Delegation{Grants: map[string][]lifecycle.Capability{
			"finance-1": {lifecycle.CapabilityPayments},
			"sales-1":   {lifecycle.CapabilityViewings, lifecycle.CapabilityContracts},
		}},
		Now: clock.Now,
	})
	return &harness{repo: repo, outbox: outbox, clock: clock, service: service}
}

var (
	tenant   = lifecycle.Actor{UserID: "tenant-1", Role: lifecycle.RoleTenant}
	landlord = lifecycle.Actor{UserID: "landlord-1", Role: lifecycle.RoleLandlord}
)

func TestDueDatesOnePerCalendarMonth(t *testing.T) {
	dates := DueDates(date("2024-01-15"), date("2024-04-15"), 5)

	got := make([]string, 0, len(dates))
	for _, d := range dates {
		got = append(got, lifecycle.FormatDate(d))
	}
	assert.Equal(t, []string{"2024-01-05", "2024-02-05", "2024-03-05", "2024-04-05"}, got)
}

func TestDueDatesClampsToShortMonths(t *testing.T) {
	dates := DueDates(date("2024-01-31"), date("2024-04-30"), 31)

	got := make([]string, 0, len(dates))
	for _, d := range dates {
		got = append(got, lifecycle.FormatDate(d))
	}
	assert.Equal(t, []string{"2024-01-31", "2024-02-29", "2024-03-31", "2024-04-30"}, got)
}

func TestDueDatesStopsAfterEndDate(t *testing.T) {
	dates := DueDates(date("2024-01-20"), date("2024-03-10"), 1)

	got := make([]string, 0, len(dates))
	for _, d := range dates {
		got = append(got, lifecycle.FormatDate(d))
	}
	assert.Equal(t, []string{"2024-01-01", "2024-02-01"}, got)
}

func TestDueDatesCrossesYearBoundary(t *testing.T) {
	dates := DueDates(date("2024-11-01"), date("2025-02-01"), 10)
	require.Len(t, dates, 4)
	assert.Equal(t, "2025-01-10", lifecycle.FormatDate(dates[2]))
}

func TestDueDatesEmptyWhenEndBeforeStart(t *testing.T) {
	assert.Empty(t, DueDates(date("2024-05-01"), date("2024-04-01"), 5))
}

func TestGenerateBillsSchedule(t *testing.T) {
	h := newHarness(date("2024-01-10"))

	bills, err := h.service.GenerateBills(context.Background(), sampleTerms())
	require.NoError(t, err)
	require.Len(t, bills, 4)
	for _, bill := range bills {
		assert.Equal(t, 4500.0, bill.Amount)
		assert.Equal(t, StatusPending, bill.Status)
		assert.Equal(t, PaymentTypeRent, bill.PaymentType)
		assert.Equal(t, "contract-1", bill.ContractID)
		assert.Equal(t, 5, bill.DueDate.Day())
	}
}

func TestGenerateBillsIsIdempotent(t *testing.T) {
	h := newHarness(date("2024-01-10"))
	ctx := context.Background()

	first, err := h.service.GenerateBills(ctx, sampleTerms())
	require.NoError(t, err)
	second, err := h.service.GenerateBills(ctx, sampleTerms())
	require.NoError(t, err)

	assert.Len(t, h.repo.payments, 4)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestGenerateBillsValidatesTerms(t *testing.T) {
	h := newHarness(date("2024-01-10"))
	terms := sampleTerms()
	terms.PaymentDay = 0

	_, err := h.service.GenerateBills(context.Background(), terms)
	assert.ErrorIs(t, err, lifecycle.ErrValidation)
}

func TestConfirmRequiresPaid(t *testing.T) {
	h := newHarness(date("2024-01-01"))
	ctx := context.Background()
	bills, err := h.service.GenerateBills(ctx, sampleTerms())
	require.NoError(t, err)

	_, err = h.service.Confirm(ctx, landlord, bills[0].ID)
	require.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
	var transition *lifecycle.TransitionError
	require.True(t, errors.As(err, &transition))
	assert.Equal(t, "pending", transition.From)
	assert.Equal(t, "confirm", transition.Action)
}

func TestSubmitProofThenConfirm(t *testing.T) {
	h := newHarness(date("2024-01-03"))
	ctx := context.Background()
	bills, err := h.service.GenerateBills(ctx, sampleTerms())
	require.NoError(t, err)

	paid, err := h.service.SubmitProof(ctx, tenant, bills[0].ID, "https://files.example/proof.png")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidDate)
	assert.Equal(t, date("2024-01-03"), *paid.PaidDate)

	event := h.outbox.Last()
	assert.Equal(t, lifecycle.EventPaymentReceived, event.Key)
	assert.Equal(t, "landlord-1", event.UserID)
	assert.Equal(t, "张三", event.Params[lifecycle.ParamTenantName])
	assert.Equal(t, "4500.00", event.Params[lifecycle.ParamAmount])

	confirmed, err := h.service.Confirm(ctx, landlord, bills[0].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	assert.NotNil(t, confirmed.ConfirmedAt)

	_, err = h.service.Confirm(ctx, landlord, bills[0].ID)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
}

func TestSubmitProofAcceptsOverdueBill(t *testing.T) {
	h := newHarness(date("2024-02-20"))
	ctx := context.Background()
	bills, err := h.service.GenerateBills(ctx, sampleTerms())
	require.NoError(t, err)
	require.Equal(t, StatusOverdue, bills[0].EffectiveStatus(h.clock.Now()))

	paid, err := h.service.SubmitProof(ctx, tenant, bills[0].ID, "proof://1")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)
}

func TestSubmitProofOnlyByTenant(t *testing.T) {
	h := newHarness(date("2024-01-01"))
	ctx := context.Background()
	bills, err := h.service.GenerateBills(ctx, sampleTerms())
	require.NoError(t, err)

	_, err = h.service.SubmitProof(ctx, landlord, bills[0].ID, "proof://1")
	assert.ErrorIs(t, err, lifecycle.ErrForbidden)
	_, err = h.service.SubmitProof(ctx, tenant, bills[0].ID, "  ")
	assert.ErrorIs(t, err, lifecycle.ErrValidation)
}

func TestConfirmByDelegatedFinanceMember(t *testing.T) {
	h := newHarness(date("2024-01-01"))
	ctx := context.Background()
	bills, err := h.service.GenerateBills(ctx, sampleTerms())
	require.NoError(t, err)
	_, err = h.service.SubmitProof(ctx, tenant, bills[0].ID, "proof://1")
	require.NoError(t, err)

	sales := lifecycle.Actor{UserID: "sales-1", Role: lifecycle.RoleAgent}
	_, err = h.service.Confirm(ctx, sales, bills[0].ID)
	require.ErrorIs(t, err, lifecycle.ErrForbidden)

	finance := lifecycle.Actor{UserID: "finance-1", Role: lifecycle.RoleAgent}
	_, err = h.service.Confirm(ctx, finance, bills[0].ID)
	require.NoError(t, err)
}

func TestConfirmRetriesOnConflict(t *testing.T) {
	h := newHarness(date("2024-01-01"))
	ctx := context.Background()
	bills, err := h.service.GenerateBills(ctx, sampleTerms())
	require.NoError(t, err)
	_, err = h.service.SubmitProof(ctx, tenant, bills[0].ID, "proof://1")
	require.NoError(t, err)

	h.repo.conflicts = 2
	confirmed, err := h.service.Confirm(ctx, landlord, bills[0].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)

	h.repo.conflicts = 5
	_, err = h.service.SubmitProof(ctx, tenant, bills[1].ID, "proof://2")
	assert.ErrorIs(t, err, lifecycle.ErrConflict)
}

func TestOverdueIsProjectedAtReadTime(t *testing.T) {
	h := newHarness(date("2024-02-10"))
	ctx := context.Background()
	_, err := h.service.GenerateBills(ctx, sampleTerms())
	require.NoError(t, err)

	overdue := StatusOverdue
	pending := StatusPending
	late, err := h.service.ListByTenant(ctx, "tenant-1", ListFilter{Status: &overdue})
	require.NoError(t, err)
	assert.Len(t, late, 2)
	upcoming, err := h.service.ListByTenant(ctx, "tenant-1", ListFilter{Status: &pending})
	require.NoError(t, err)
	assert.Len(t, upcoming, 2)

	bill := late[0]
	bill.DueDate = date("2024-03-01")
	assert.Equal(t, StatusPending, bill.EffectiveStatus(h.clock.Now()))
	for _, stored := range h.repo.payments {
		assert.Equal(t, StatusPending, stored.Status)
	}
}

func TestOverdueBoundaryIsTheDueDate(t *testing.T) {
	due := date("2024-03-05")
	assert.False(t, IsOverdue(StatusPending, due, due.Add(23*time.Hour)))
	assert.True(t, IsOverdue(StatusPending, due, due.Add(24*time.Hour)))
	assert.False(t, IsOverdue(StatusPaid, due, due.Add(72*time.Hour)))
}

func TestSendDueRemindersOncePerBill(t *testing.T) {
	h := newHarness(date("2024-01-02"))
	ctx := context.Background()
	_, err := h.service.GenerateBills(ctx, sampleTerms())
	require.NoError(t, err)

	sent, err := h.service.SendDueReminders(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	event := h.outbox.Last()
	assert.Equal(t, lifecycle.EventPaymentReminder, event.Key)
	assert.Equal(t, "tenant-1", event.UserID)
	assert.Equal(t, "2024-01-05", event.Params[lifecycle.ParamDueDate])
	assert.Equal(t, "阳光公寓 3A", event.Params[lifecycle.ParamPropertyTitle])

	sent, err = h.service.SendDueReminders(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestSummaryCountsDerivedOverdue(t *testing.T) {
	h := newHarness(date("2024-02-10"))
	ctx := context.Background()
	bills, err := h.service.GenerateBills(ctx, sampleTerms())
	require.NoError(t, err)
	_, err = h.service.SubmitProof(ctx, tenant, bills[0].ID, "proof://1")
	require.NoError(t, err)

	summary, err := h.service.Summary(ctx, "landlord-1")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.PaidCount)
	assert.Equal(t, 1, summary.OverdueCount)
	assert.Equal(t, 2, summary.PendingCount)
	assert.Equal(t, 9000.0, summary.PendingAmount)
}

func TestGetByIDRestrictsToParticipants(t *testing.T) {
	h := newHarness(date("2024-01-01"))
	ctx := context.Background()
	bills, err := h.service.GenerateBills(ctx, sampleTerms())
	require.NoError(t, err)

	_, err = h.service.GetByID(ctx, tenant, bills[0].ID)
	require.NoError(t, err)
	_, err = h.service.GetByID(ctx, lifecycle.Actor{UserID: "stranger", Role: lifecycle.RoleTenant}, bills[0].ID)
	assert.ErrorIs(t, err, lifecycle.ErrForbidden)
	_, err = h.service.GetByID(ctx, tenant, "missing")
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}
