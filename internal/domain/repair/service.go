package repair

import (
	"context"
	"strings"

	"rental-app-go/internal/domain/lifecycle"
	"rental-app-go/internal/domain/property"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const entityName = "repair"

type PropertyLookup interface {
	GetByID(ctx context.Context, id string) (*property.Property, error)
}

type Service struct {
	repo       Repository
	properties PropertyLookup
	deps       lifecycle.Deps
}

func NewService(repo Repository, properties PropertyLookup, deps lifecycle.Deps) *Service {
	return &Service{repo: repo, properties: properties, deps: deps.WithDefaults()}
}

func (s *Service) Create(ctx context.Context, actor lifecycle.Actor, input CreateInput) (*Order, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, lifecycle.Invalid("title", "is required")
	}
	if strings.TrimSpace(input.PropertyID) == "" {
		return nil, lifecycle.Invalid("property_id", "is required")
	}
	if input.Priority == "" {
		input.Priority = PriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, lifecycle.Invalid("priority", "must be low, medium, high or urgent")
	}
	tenantID := strings.TrimSpace(input.TenantID)
	if tenantID == "" {
		tenantID = actor.UserID
	}
	if err := lifecycle.AuthorizeUser(actor, tenantID); err != nil {
		return nil, err
	}

	prop, err := s.properties.GetByID(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}

	order := Order{
		ID:          uuid.NewString(),
		PropertyID:  prop.ID,
		TenantID:    tenantID,
		LandlordID:  prop.LandlordID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Images:      datatypes.JSONSlice[string](nonNil(input.Images)),
		Category:    strings.TrimSpace(input.Category),
		Priority:    input.Priority,
		Status:      StatusPending,
		Version:     1,
	}

	err = s.deps.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, &order); err != nil {
			return err
		}
		return s.deps.Outbox.Enqueue(ctx, lifecycle.Event{
			Key:         lifecycle.EventRepairRequested,
			UserID:      order.LandlordID,
			UserRole:    lifecycle.RoleLandlord,
			RelatedID:   order.ID,
			RelatedType: lifecycle.RelatedRepair,
			Params: map[string]string{
				lifecycle.ParamPropertyTitle: prop.Title,
				lifecycle.ParamTenantName:    s.displayName(ctx, tenantID),
			},
		})
	})
	s.deps.Observer.Transition(entityName, "create", err)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) GetByID(ctx context.Context, actor lifecycle.Actor, id string) (*Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Is(order.TenantID) {
		return order, nil
	}
	if err := s.authorizeLandlord(ctx, actor, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) ListByLandlord(ctx context.Context, landlordID string, filter ListFilter) ([]Order, error) {
	return s.repo.ListByLandlord(ctx, landlordID, filter)
}

func (s *Service) ListByTenant(ctx context.Context, tenantID string, filter ListFilter) ([]Order, error) {
	return s.repo.ListByTenant(ctx, tenantID, filter)
}

func (s *Service) Assign(ctx context.Context, actor lifecycle.Actor, id string, input AssignInput) (*Order, error) {
	assignedTo := strings.TrimSpace(input.AssignedTo)
	if assignedTo == "" {
		return nil, lifecycle.Invalid("assigned_to", "is required")
	}
	if input.Responsibility != "" && !input.Responsibility.Valid() {
		return nil, lifecycle.Invalid("responsibility", "must be landlord or tenant")
	}
	assignedType := strings.TrimSpace(input.AssignedType)

	return s.apply(ctx, "assign", id, func(ctx context.Context, order *Order) error {
		if err := s.authorizeLandlord(ctx, actor, order); err != nil {
			return err
		}
		if order.Status != StatusPending {
			return lifecycle.InvalidTransition(entityName, order.ID, "assign", string(order.Status))
		}
		now := s.deps.Now()
		order.AssignedTo = &assignedTo
		if assignedType != "" {
			order.AssignedType = &assignedType
		}
		if input.Responsibility != "" {
			responsibility := input.Responsibility
			order.Responsibility = &responsibility
		}
		order.AssignedAt = &now
		order.Status = StatusAssigned
		return nil
	}, nil)
}

// UpdateStatus records intermediate progress. Only forward moves are accepted,
// and the only state reachable this way is in_progress; assignment, completion
// and confirmation have their own operations.
func (s *Service) UpdateStatus(ctx context.Context, actor lifecycle.Actor, id string, status Status) (*Order, error) {
	if _, ok := statusRank[status]; !ok {
		return nil, lifecycle.Invalid("status", "unknown repair status")
	}

	return s.apply(ctx, "update_status", id, func(ctx context.Context, order *Order) error {
		if err := s.authorizeLandlord(ctx, actor, order); err != nil {
			return err
		}
		if !order.Status.Before(status) {
			return lifecycle.InvalidTransitionReason(entityName, order.ID, "update_status", string(order.Status), "cannot move back to "+string(status))
		}
		if status != StatusInProgress {
			return lifecycle.Invalid("status", "only in_progress can be set directly")
		}
		if order.Status != StatusAssigned {
			return lifecycle.InvalidTransitionReason(entityName, order.ID, "update_status", string(order.Status), "order must be assigned first")
		}
		order.Status = status
		return nil
	}, nil)
}

func (s *Service) Complete(ctx context.Context, actor lifecycle.Actor, id string, input CompleteInput) (*Order, error) {
	if input.Cost < 0 {
		return nil, lifecycle.Invalid("cost", "must not be negative")
	}
	if input.CostBearer != "" && !input.CostBearer.Valid() {
		return nil, lifecycle.Invalid("cost_bearer", "must be landlord or tenant")
	}
	if input.Cost > 0 && input.CostBearer == "" {
		return nil, lifecycle.Invalid("cost_bearer", "is required when cost is set")
	}
	notes := strings.TrimSpace(input.Notes)

	return s.apply(ctx, "complete", id, func(ctx context.Context, order *Order) error {
		if err := s.authorizeLandlord(ctx, actor, order); err != nil {
			return err
		}
		if order.Status != StatusAssigned && order.Status != StatusInProgress {
			return lifecycle.InvalidTransition(entityName, order.ID, "complete", string(order.Status))
		}
		now := s.deps.Now()
		cost := input.Cost
		order.CompletionNotes = &notes
		order.CompletionImages = datatypes.JSONSlice[string](nonNil(input.Images))
		order.Cost = &cost
		if input.CostBearer != "" {
			bearer := input.CostBearer
			order.CostBearer = &bearer
		}
		order.CompletedAt = &now
		order.Status = StatusCompleted
		return nil
	}, func(ctx context.Context, order *Order) lifecycle.Event {
		return lifecycle.Event{
			Key:         lifecycle.EventRepairCompleted,
			UserID:      order.TenantID,
			UserRole:    lifecycle.RoleTenant,
			RelatedID:   order.ID,
			RelatedType: lifecycle.RelatedRepair,
			Params: map[string]string{
				lifecycle.ParamPropertyTitle: s.deps.Directory.PropertyTitle(ctx, order.PropertyID),
			},
		}
	})
}

// Confirm is the tenant accepting the finished work.
func (s *Service) Confirm(ctx context.Context, actor lifecycle.Actor, id string) (*Order, error) {
	return s.apply(ctx, "confirm", id, func(ctx context.Context, order *Order) error {
		if !actor.Is(order.TenantID) {
			return lifecycle.ErrForbidden
		}
		if order.Status != StatusCompleted {
			return lifecycle.InvalidTransition(entityName, order.ID, "confirm", string(order.Status))
		}
		now := s.deps.Now()
		order.ConfirmedAt = &now
		order.Status = StatusConfirmed
		return nil
	}, nil)
}

func (s *Service) apply(ctx context.Context, action, id string, mutate func(ctx context.Context, order *Order) error, event func(ctx context.Context, order *Order) lifecycle.Event) (*Order, error) {
	var result *Order
	err := lifecycle.RetryOnConflict(ctx, func(ctx context.Context) error {
		return s.deps.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
			order, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			expected := order.Version
			if err := mutate(ctx, order); err != nil {
				return err
			}
			order.Version++
			if err := s.repo.Update(ctx, order, expected); err != nil {
				return err
			}
			if event != nil {
				if err := s.deps.Outbox.Enqueue(ctx, event(ctx, order)); err != nil {
					return err
				}
			}
			result = order
			return nil
		})
	})
	s.deps.Observer.Transition(entityName, action, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) authorizeLandlord(ctx context.Context, actor lifecycle.Actor, order *Order) error {
	return lifecycle.AuthorizeLandlordSide(ctx, s.deps.Delegation, actor, order.LandlordID, order.PropertyID, lifecycle.CapabilityRepairs)
}

func (s *Service) displayName(ctx context.Context, userID string) string {
	if name := s.deps.Directory.DisplayName(ctx, userID); name != "" {
		return name
	}
	return userID
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
