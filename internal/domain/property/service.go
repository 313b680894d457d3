package property

import (
	"context"
	"strings"

	"rental-app-go/internal/domain/lifecycle"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	deps lifecycle.Deps
}

func NewService(repo Repository, deps lifecycle.Deps) *Service {
	return &Service{repo: repo, deps: deps.WithDefaults()}
}

func (s *Service) Create(ctx context.Context, actor lifecycle.Actor, input CreateInput) (*Property, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, lifecycle.Invalid("title", "is required")
	}
	if input.RentAmount < 0 {
		return nil, lifecycle.Invalid("rent_amount", "must not be negative")
	}
	landlordID := strings.TrimSpace(input.LandlordID)
	if landlordID == "" {
		landlordID = actor.UserID
	}
	if err := lifecycle.AuthorizeUser(actor, landlordID); err != nil {
		return nil, err
	}

	property := Property{
		ID:         uuid.NewString(),
		LandlordID: landlordID,
		Title:      title,
		Address:    strings.TrimSpace(input.Address),
		RentAmount: input.RentAmount,
		Status:     StatusAvailable,
		Version:    1,
	}
	if err := s.repo.Create(ctx, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Property, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByLandlord(ctx context.Context, landlordID string, filter ListFilter) ([]Property, error) {
	return s.repo.ListByLandlord(ctx, landlordID, filter)
}

// UpdateStatus is the landlord-facing status change.
func (s *Service) UpdateStatus(ctx context.Context, actor lifecycle.Actor, id string, status Status) (*Property, error) {
	if !status.Valid() {
		return nil, lifecycle.Invalid("status", "unknown property status")
	}

	var result *Property
	err := lifecycle.RetryOnConflict(ctx, func(ctx context.Context) error {
		property, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := lifecycle.AuthorizeLandlordSide(ctx, s.deps.Delegation, actor, property.LandlordID, property.ID, lifecycle.CapabilityProperties); err != nil {
			return err
		}
		if property.Status == status {
			result = property
			return nil
		}
		expected := property.Version
		property.Status = status
		property.Version++
		if err := s.repo.Update(ctx, property, expected); err != nil {
			return err
		}
		result = property
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetStatus is used by other workflows (contract activation and termination)
// inside their own transaction, without an actor check.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) error {
	return lifecycle.RetryOnConflict(ctx, func(ctx context.Context) error {
		property, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if property.Status == status {
			return nil
		}
		expected := property.Version
		property.Status = status
		property.Version++
		return s.repo.Update(ctx, property, expected)
	})
}
