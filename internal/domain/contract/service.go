package contract

import (
	"context"
	"strings"

	"rental-app-go/internal/domain/billing"
	"rental-app-go/internal/domain/lifecycle"
	"rental-app-go/internal/domain/property"

	"github.com/google/uuid"
)

const entityName = "contract"

// BillGenerator materializes the rent schedule once a contract is active.
type BillGenerator interface {
	GenerateBills(ctx context.Context, terms billing.ContractTerms) ([]billing.Payment, error)
}

type Properties interface {
	GetByID(ctx context.Context, id string) (*property.Property, error)
	SetStatus(ctx context.Context, id string, status property.Status) error
}

type Service struct {
	repo       Repository
	bills      BillGenerator
	properties Properties
	deps       lifecycle.Deps
}

func NewService(repo Repository, bills BillGenerator, properties Properties, deps lifecycle.Deps) *Service {
	return &Service{repo: repo, bills: bills, properties: properties, deps: deps.WithDefaults()}
}

func (s *Service) Create(ctx context.Context, actor lifecycle.Actor, input CreateInput) (*Contract, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	prop, err := s.properties.GetByID(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}
	landlordID := strings.TrimSpace(input.LandlordID)
	if landlordID == "" {
		landlordID = prop.LandlordID
	}
	if landlordID != prop.LandlordID {
		return nil, ErrPropertyMismatch
	}
	if input.TenantID == landlordID {
		return nil, lifecycle.Invalid("tenant_id", "must differ from landlord")
	}

	switch input.InitiatedBy {
	case PartyLandlord:
		err = lifecycle.AuthorizeLandlordSide(ctx, s.deps.Delegation, actor, landlordID, prop.ID, lifecycle.CapabilityContracts)
	default:
		err = lifecycle.AuthorizeUser(actor, input.TenantID)
	}
	if err != nil {
		return nil, err
	}

	contract := Contract{
		ID:            uuid.NewString(),
		PropertyID:    prop.ID,
		LandlordID:    landlordID,
		TenantID:      input.TenantID,
		TemplateID:    strings.TrimSpace(input.TemplateID),
		RentAmount:    input.RentAmount,
		DepositAmount: input.DepositAmount,
		PaymentDay:    input.PaymentDay,
		StartDate:     lifecycle.DateOf(input.StartDate),
		EndDate:       lifecycle.DateOf(input.EndDate),
		CustomContent: input.CustomContent,
		InitiatedBy:   input.InitiatedBy,
		Status:        awaiting(input.InitiatedBy.other()),
		Version:       1,
	}

	invitee, inviteeRole := contract.TenantID, lifecycle.RoleTenant
	initiator := contract.LandlordID
	if contract.InitiatedBy == PartyTenant {
		invitee, inviteeRole = contract.LandlordID, lifecycle.RoleLandlord
		initiator = contract.TenantID
	}

	err = s.deps.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, &contract); err != nil {
			return err
		}
		return s.deps.Outbox.Enqueue(ctx, lifecycle.Event{
			Key:         lifecycle.EventContractInvited,
			UserID:      invitee,
			UserRole:    inviteeRole,
			RelatedID:   contract.ID,
			RelatedType: lifecycle.RelatedContract,
			Params: map[string]string{
				lifecycle.ParamPropertyTitle: s.propertyTitle(ctx, prop),
				lifecycle.ParamInitiatorName: s.displayName(ctx, initiator),
			},
		})
	})
	s.deps.Observer.Transition(entityName, "create", err)
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func validateInput(input CreateInput) error {
	switch {
	case strings.TrimSpace(input.PropertyID) == "":
		return lifecycle.Invalid("property_id", "is required")
	case strings.TrimSpace(input.TenantID) == "":
		return lifecycle.Invalid("tenant_id", "is required")
	case !input.InitiatedBy.Valid():
		return lifecycle.Invalid("initiated_by", "must be landlord or tenant")
	case input.RentAmount <= 0:
		return lifecycle.Invalid("rent_amount", "must be positive")
	case input.DepositAmount < 0:
		return lifecycle.Invalid("deposit_amount", "must not be negative")
	case input.PaymentDay < 1 || input.PaymentDay > 31:
		return lifecycle.Invalid("payment_day", "must be between 1 and 31")
	case input.StartDate.IsZero() || input.EndDate.IsZero():
		return lifecycle.Invalid("start_date", "start and end dates are required")
	case lifecycle.DateOf(input.EndDate).Before(lifecycle.DateOf(input.StartDate)):
		return lifecycle.Invalid("end_date", "must not be before start date")
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, actor lifecycle.Actor, id string) (*Contract, error) {
	contract, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Is(contract.TenantID) {
		return contract, nil
	}
	if err := lifecycle.AuthorizeLandlordSide(ctx, s.deps.Delegation, actor, contract.LandlordID, contract.PropertyID, lifecycle.CapabilityContracts); err != nil {
		return nil, err
	}
	return contract, nil
}

func (s *Service) ListByLandlord(ctx context.Context, landlordID string, filter ListFilter) ([]Contract, error) {
	if filter.AsOf.IsZero() {
		filter.AsOf = s.deps.Now()
	}
	return s.repo.ListByLandlord(ctx, landlordID, filter)
}

func (s *Service) ListByTenant(ctx context.Context, tenantID string, filter ListFilter) ([]Contract, error) {
	if filter.AsOf.IsZero() {
		filter.AsOf = s.deps.Now()
	}
	return s.repo.ListByTenant(ctx, tenantID, filter)
}

func (s *Service) TenantSign(ctx context.Context, actor lifecycle.Actor, id, signature string) (*Contract, error) {
	return s.sign(ctx, actor, id, PartyTenant, signature)
}

func (s *Service) LandlordSign(ctx context.Context, actor lifecycle.Actor, id, signature string) (*Contract, error) {
	return s.sign(ctx, actor, id, PartyLandlord, signature)
}

// sign records one party's signature. Signatures are write-once; the contract
// becomes signed only when both are present.
func (s *Service) sign(ctx context.Context, actor lifecycle.Actor, id string, party Party, signature string) (*Contract, error) {
	if strings.TrimSpace(signature) == "" {
		return nil, lifecycle.Invalid("signature", "is required")
	}
	action := string(party) + "_sign"

	var result *Contract
	err := s.transition(ctx, action, func(ctx context.Context) error {
		contract, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authorizeParty(ctx, actor, contract, party); err != nil {
			return err
		}
		if !contract.Status.pending() {
			return lifecycle.InvalidTransition(entityName, contract.ID, action, string(contract.Status))
		}
		if contract.signatureOf(party) != nil {
			return lifecycle.InvalidTransitionReason(entityName, contract.ID, action, string(contract.Status), string(party)+" signature already recorded")
		}

		expected := contract.Version
		contract.sign(party, signature, s.deps.Now())
		if _, ok := contract.Signed(); ok {
			contract.Status = StatusSigned
		} else {
			contract.Status = awaiting(party.other())
		}
		contract.Version++
		if err := s.repo.Update(ctx, contract, expected); err != nil {
			return err
		}
		result = contract
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Activate moves a signed contract to active, generates its rent schedule and
// marks the property rented, all in one transaction.
func (s *Service) Activate(ctx context.Context, actor lifecycle.Actor, id string) (*Contract, error) {
	var result *Contract
	err := s.transition(ctx, "activate", func(ctx context.Context) error {
		contract, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := lifecycle.AuthorizeLandlordSide(ctx, s.deps.Delegation, actor, contract.LandlordID, contract.PropertyID, lifecycle.CapabilityContracts); err != nil {
			return err
		}
		if contract.Status != StatusSigned {
			return lifecycle.InvalidTransition(entityName, contract.ID, "activate", string(contract.Status))
		}
		signed, ok := contract.Signed()
		if !ok {
			return lifecycle.InvalidTransitionReason(entityName, contract.ID, "activate", string(contract.Status), "both signatures are required")
		}

		now := s.deps.Now()
		expected := contract.Version
		contract.Status = StatusActive
		contract.ActivatedAt = &now
		contract.Version++
		if err := s.repo.Update(ctx, contract, expected); err != nil {
			return err
		}
		if _, err := s.bills.GenerateBills(ctx, termsOf(signed)); err != nil {
			return err
		}
		if err := s.properties.SetStatus(ctx, contract.PropertyID, property.StatusRented); err != nil {
			return err
		}

		title := s.propertyTitleByID(ctx, contract.PropertyID)
		if err := s.deps.Outbox.Enqueue(ctx,
			s.contractEvent(lifecycle.EventContractSigned, contract, contract.LandlordID, lifecycle.RoleLandlord, title, ""),
			s.contractEvent(lifecycle.EventContractSigned, contract, contract.TenantID, lifecycle.RoleTenant, title, ""),
		); err != nil {
			return err
		}
		result = contract
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func termsOf(c SignedContract) billing.ContractTerms {
	return billing.ContractTerms{
		ContractID: c.ID,
		PropertyID: c.PropertyID,
		TenantID:   c.TenantID,
		LandlordID: c.LandlordID,
		RentAmount: c.RentAmount,
		PaymentDay: c.PaymentDay,
		StartDate:  c.StartDate,
		EndDate:    c.EndDate,
	}
}

// Terminate ends a signed or active contract. Either party may terminate; the
// other party is notified.
func (s *Service) Terminate(ctx context.Context, actor lifecycle.Actor, id, reason string) (*Contract, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, lifecycle.Invalid("reason", "is required")
	}

	var result *Contract
	err := s.transition(ctx, "terminate", func(ctx context.Context) error {
		contract, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		byTenant := actor.Is(contract.TenantID)
		if !byTenant {
			if err := lifecycle.AuthorizeLandlordSide(ctx, s.deps.Delegation, actor, contract.LandlordID, contract.PropertyID, lifecycle.CapabilityContracts); err != nil {
				return err
			}
		}
		if contract.Status != StatusSigned && contract.Status != StatusActive {
			return lifecycle.InvalidTransition(entityName, contract.ID, "terminate", string(contract.EffectiveStatus(s.deps.Now())))
		}

		wasActive := contract.Status == StatusActive
		now := s.deps.Now()
		expected := contract.Version
		contract.Status = StatusTerminated
		contract.TerminationReason = &reason
		contract.TerminatedAt = &now
		contract.Version++
		if err := s.repo.Update(ctx, contract, expected); err != nil {
			return err
		}
		if wasActive {
			if err := s.properties.SetStatus(ctx, contract.PropertyID, property.StatusAvailable); err != nil {
				return err
			}
		}

		recipient, role := contract.TenantID, lifecycle.RoleTenant
		if byTenant {
			recipient, role = contract.LandlordID, lifecycle.RoleLandlord
		}
		title := s.propertyTitleByID(ctx, contract.PropertyID)
		if err := s.deps.Outbox.Enqueue(ctx, s.contractEvent(lifecycle.EventContractTerminated, contract, recipient, role, title, reason)); err != nil {
			return err
		}
		result = contract
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) authorizeParty(ctx context.Context, actor lifecycle.Actor, contract *Contract, party Party) error {
	if party == PartyTenant {
		return lifecycle.AuthorizeUser(actor, contract.TenantID)
	}
	return lifecycle.AuthorizeLandlordSide(ctx, s.deps.Delegation, actor, contract.LandlordID, contract.PropertyID, lifecycle.CapabilityContracts)
}

func (s *Service) transition(ctx context.Context, action string, fn func(ctx context.Context) error) error {
	err := lifecycle.RetryOnConflict(ctx, func(ctx context.Context) error {
		return s.deps.Tx.WithinTransaction(ctx, fn)
	})
	s.deps.Observer.Transition(entityName, action, err)
	return err
}

func (s *Service) contractEvent(key lifecycle.EventKey, contract *Contract, userID string, role lifecycle.Role, title, reason string) lifecycle.Event {
	params := map[string]string{lifecycle.ParamPropertyTitle: title}
	if reason != "" {
		params[lifecycle.ParamReason] = reason
	}
	return lifecycle.Event{
		Key:         key,
		UserID:      userID,
		UserRole:    role,
		RelatedID:   contract.ID,
		RelatedType: lifecycle.RelatedContract,
		Params:      params,
	}
}

func (s *Service) propertyTitle(ctx context.Context, prop *property.Property) string {
	if prop.Title != "" {
		return prop.Title
	}
	return s.deps.Directory.PropertyTitle(ctx, prop.ID)
}

func (s *Service) propertyTitleByID(ctx context.Context, propertyID string) string {
	return s.deps.Directory.PropertyTitle(ctx, propertyID)
}

func (s *Service) displayName(ctx context.Context, userID string) string {
	if name := s.deps.Directory.DisplayName(ctx, userID); name != "" {
		return name
	}
	return userID
}
