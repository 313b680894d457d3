package billing

import (
	"context"
	"strconv"
	"strings"

	"rental-app-go/internal/domain/lifecycle"

	"github.com/google/uuid"
)

const (
	entityName         = "payment"
	defaultReminderCap = 200
)

type Service struct {
	repo Repository
	deps lifecycle.Deps
}

func NewService(repo Repository, deps lifecycle.Deps) *Service {
	return &Service{repo: repo, deps: deps.WithDefaults()}
}

// GenerateBills materializes the rent schedule of a contract. Dates already
// present for the contract are skipped, so repeated calls leave exactly one
// bill per due month.
func (s *Service) GenerateBills(ctx context.Context, terms ContractTerms) ([]Payment, error) {
	if err := validateTerms(terms); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByContract(ctx, terms.ContractID, PaymentTypeRent)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, payment := range existing {
		seen[lifecycle.FormatDate(payment.DueDate)] = struct{}{}
	}

	planned := buildRentBills(terms, uuid.NewString)
	missing := make([]Payment, 0, len(planned))
	for _, bill := range planned {
		if _, ok := seen[lifecycle.FormatDate(bill.DueDate)]; ok {
			continue
		}
		missing = append(missing, bill)
	}

	if len(missing) > 0 {
		if err := s.repo.CreateBatch(ctx, missing); err != nil {
			return nil, err
		}
	}

	return s.repo.ListByContract(ctx, terms.ContractID, PaymentTypeRent)
}

func validateTerms(terms ContractTerms) error {
	if strings.TrimSpace(terms.ContractID) == "" {
		return lifecycle.Invalid("contract_id", "is required")
	}
	if terms.RentAmount <= 0 {
		return lifecycle.Invalid("rent_amount", "must be positive")
	}
	if terms.PaymentDay < 1 || terms.PaymentDay > 31 {
		return lifecycle.Invalid("payment_day", "must be between 1 and 31")
	}
	if terms.EndDate.Before(terms.StartDate) {
		return lifecycle.Invalid("end_date", "must not be before start date")
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, actor lifecycle.Actor, id string) (*Payment, error) {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeParticipant(ctx, actor, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *Service) ListByTenant(ctx context.Context, tenantID string, filter ListFilter) ([]Payment, error) {
	if filter.AsOf.IsZero() {
		filter.AsOf = s.deps.Now()
	}
	return s.repo.ListByTenant(ctx, tenantID, filter)
}

func (s *Service) ListByLandlord(ctx context.Context, landlordID string, filter ListFilter) ([]Payment, error) {
	if filter.AsOf.IsZero() {
		filter.AsOf = s.deps.Now()
	}
	return s.repo.ListByLandlord(ctx, landlordID, filter)
}

func (s *Service) Summary(ctx context.Context, landlordID string) (Summary, error) {
	now := s.deps.Now()
	payments, err := s.repo.ListByLandlord(ctx, landlordID, ListFilter{AsOf: now})
	if err != nil {
		return Summary{}, err
	}
	return Summarize(payments, now), nil
}

// SubmitProof records the tenant's transfer proof. Overdue bills are still
// stored as pending, so they accept proof the same way.
func (s *Service) SubmitProof(ctx context.Context, actor lifecycle.Actor, id, proofURL string) (*Payment, error) {
	proofURL = strings.TrimSpace(proofURL)
	if proofURL == "" {
		return nil, lifecycle.Invalid("proof_url", "is required")
	}

	var result *Payment
	err := s.transition(ctx, "submit_proof", func(ctx context.Context) error {
		payment, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := lifecycle.AuthorizeUser(actor, payment.TenantID); err != nil {
			return err
		}
		if payment.Status != StatusPending {
			return lifecycle.InvalidTransition(entityName, payment.ID, "submit_proof", string(payment.EffectiveStatus(s.deps.Now())))
		}

		now := s.deps.Now()
		paidDate := lifecycle.DateOf(now)
		expected := payment.Version
		payment.Status = StatusPaid
		payment.ProofURL = &proofURL
		payment.PaidDate = &paidDate
		payment.Version++
		if err := s.repo.Update(ctx, payment, expected); err != nil {
			return err
		}

		if err := s.deps.Outbox.Enqueue(ctx, lifecycle.Event{
			Key:         lifecycle.EventPaymentReceived,
			UserID:      payment.LandlordID,
			UserRole:    lifecycle.RoleLandlord,
			RelatedID:   payment.ID,
			RelatedType: lifecycle.RelatedPayment,
			Params: map[string]string{
				lifecycle.ParamTenantName:    s.nameOrFallback(ctx, payment.TenantID),
				lifecycle.ParamAmount:        FormatAmount(payment.Amount),
				lifecycle.ParamPropertyTitle: s.deps.Directory.PropertyTitle(ctx, payment.PropertyID),
			},
		}); err != nil {
			return err
		}
		result = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Confirm is the landlord acknowledging receipt; only a paid bill qualifies.
func (s *Service) Confirm(ctx context.Context, actor lifecycle.Actor, id string) (*Payment, error) {
	var result *Payment
	err := s.transition(ctx, "confirm", func(ctx context.Context) error {
		payment, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := lifecycle.AuthorizeLandlordSide(ctx, s.deps.Delegation, actor, payment.LandlordID, payment.PropertyID, lifecycle.CapabilityPayments); err != nil {
			return err
		}
		if payment.Status != StatusPaid {
			return lifecycle.InvalidTransition(entityName, payment.ID, "confirm", string(payment.EffectiveStatus(s.deps.Now())))
		}

		now := s.deps.Now()
		expected := payment.Version
		payment.Status = StatusConfirmed
		payment.ConfirmedAt = &now
		payment.Version++
		if err := s.repo.Update(ctx, payment, expected); err != nil {
			return err
		}
		result = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SendDueReminders enqueues one reminder per pending bill due within
// daysAhead days, including bills already overdue. Each bill is reminded once.
func (s *Service) SendDueReminders(ctx context.Context, daysAhead int) (int, error) {
	if daysAhead < 0 {
		daysAhead = 0
	}
	now := s.deps.Now()
	horizon := lifecycle.DateOf(now).AddDate(0, 0, daysAhead)

	due, err := s.repo.ListDueForReminder(ctx, horizon, defaultReminderCap)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, candidate := range due {
		reminded := false
		err := s.deps.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
			payment, err := s.repo.GetByID(ctx, candidate.ID)
			if err != nil {
				return err
			}
			if payment.Status != StatusPending || payment.RemindedAt != nil {
				return nil
			}
			expected := payment.Version
			payment.RemindedAt = &now
			payment.Version++
			if err := s.repo.Update(ctx, payment, expected); err != nil {
				return err
			}
			reminded = true
			return s.deps.Outbox.Enqueue(ctx, lifecycle.Event{
				Key:         lifecycle.EventPaymentReminder,
				UserID:      payment.TenantID,
				UserRole:    lifecycle.RoleTenant,
				RelatedID:   payment.ID,
				RelatedType: lifecycle.RelatedPayment,
				Params: map[string]string{
					lifecycle.ParamPropertyTitle: s.deps.Directory.PropertyTitle(ctx, payment.PropertyID),
					lifecycle.ParamAmount:        FormatAmount(payment.Amount),
					lifecycle.ParamDueDate:       lifecycle.FormatDate(payment.DueDate),
				},
			})
		})
		if err != nil {
			return sent, err
		}
		if reminded {
			sent++
		}
	}
	return sent, nil
}

func (s *Service) transition(ctx context.Context, action string, fn func(ctx context.Context) error) error {
	err := lifecycle.RetryOnConflict(ctx, func(ctx context.Context) error {
		return s.deps.Tx.WithinTransaction(ctx, fn)
	})
	s.deps.Observer.Transition(entityName, action, err)
	return err
}

func (s *Service) authorizeParticipant(ctx context.Context, actor lifecycle.Actor, payment *Payment) error {
	if actor.Is(payment.TenantID) {
		return nil
	}
	return lifecycle.AuthorizeLandlordSide(ctx, s.deps.Delegation, actor, payment.LandlordID, payment.PropertyID, lifecycle.CapabilityPayments)
}

func (s *Service) nameOrFallback(ctx context.Context, userID string) string {
	if name := s.deps.Directory.DisplayName(ctx, userID); name != "" {
		return name
	}
	return userID
}

func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
