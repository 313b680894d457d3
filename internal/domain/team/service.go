package team

import (
	"context"
	"errors"
	"strings"

	"rental-app-go/internal/domain/lifecycle"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const entityName = "team_member"

type Service struct {
	repo Repository
	deps lifecycle.Deps
}

func NewService(repo Repository, deps lifecycle.Deps) *Service {
	return &Service{repo: repo, deps: deps.WithDefaults()}
}

func (s *Service) Invite(ctx context.Context, actor lifecycle.Actor, input InviteInput) (*Member, error) {
	landlordID := strings.TrimSpace(input.LandlordID)
	if landlordID == "" {
		landlordID = actor.UserID
	}
	memberID := strings.TrimSpace(input.MemberID)
	if memberID == "" {
		return nil, lifecycle.Invalid("member_id", "is required")
	}
	if memberID == landlordID {
		return nil, lifecycle.Invalid("member_id", "landlord cannot invite themselves")
	}
	scope, ids, err := normalizeScope(input.Role, input.PropertyScope, input.PropertyIDs)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.AuthorizeUser(actor, landlordID); err != nil {
		return nil, err
	}

	member := Member{
		ID:            uuid.NewString(),
		LandlordID:    landlordID,
		MemberID:      memberID,
		Role:          input.Role,
		PropertyScope: scope,
		PropertyIDs:   datatypes.JSONSlice[string](ids),
		Status:        StatusPending,
		Version:       1,
	}
	err = s.deps.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.repo.FindCurrent(ctx, landlordID, memberID)
		switch {
		case err == nil:
			return ErrAlreadyMember
		case !errors.Is(err, ErrMemberNotFound):
			return err
		}
		return s.repo.Create(ctx, &member)
	})
	s.deps.Observer.Transition(entityName, "invite", err)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func normalizeScope(role Role, scope Scope, propertyIDs []string) (Scope, []string, error) {
	if _, ok := roleCapabilities[role]; !ok {
		return "", nil, lifecycle.Invalid("role", "must be manager, sales, finance or maintenance")
	}
	if scope == "" {
		scope = ScopeAll
	}
	ids := make([]string, 0, len(propertyIDs))
	for _, id := range propertyIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	switch scope {
	case ScopeAll:
		return scope, []string{}, nil
	case ScopeSubset:
		if len(ids) == 0 {
			return "", nil, lifecycle.Invalid("property_ids", "required for subset scope")
		}
		return scope, ids, nil
	default:
		return "", nil, lifecycle.Invalid("property_scope", "must be all or subset")
	}
}

func (s *Service) AcceptInvite(ctx context.Context, actor lifecycle.Actor, id string) (*Member, error) {
	return s.apply(ctx, "accept", id, func(member *Member) error {
		if !actor.Is(member.MemberID) {
			return lifecycle.ErrForbidden
		}
		if member.Status != StatusPending {
			return lifecycle.InvalidTransition(entityName, member.ID, "accept", string(member.Status))
		}
		now := s.deps.Now()
		member.JoinedAt = &now
		member.Status = StatusActive
		return nil
	})
}

func (s *Service) UpdateRole(ctx context.Context, actor lifecycle.Actor, id string, input RoleInput) (*Member, error) {
	scope, ids, err := normalizeScope(input.Role, input.PropertyScope, input.PropertyIDs)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, "update_role", id, func(member *Member) error {
		if err := lifecycle.AuthorizeUser(actor, member.LandlordID); err != nil {
			return err
		}
		if member.Status != StatusActive {
			return lifecycle.InvalidTransition(entityName, member.ID, "update_role", string(member.Status))
		}
		member.Role = input.Role
		member.PropertyScope = scope
		member.PropertyIDs = datatypes.JSONSlice[string](ids)
		return nil
	})
}

// Remove ends a membership. The landlord may remove anyone; a member may leave.
func (s *Service) Remove(ctx context.Context, actor lifecycle.Actor, id string) (*Member, error) {
	return s.apply(ctx, "remove", id, func(member *Member) error {
		if !actor.Is(member.MemberID) {
			if err := lifecycle.AuthorizeUser(actor, member.LandlordID); err != nil {
				return err
			}
		}
		if member.Status == StatusRemoved {
			return lifecycle.InvalidTransition(entityName, member.ID, "remove", string(member.Status))
		}
		now := s.deps.Now()
		member.RemovedAt = &now
		member.Status = StatusRemoved
		return nil
	})
}

func (s *Service) ListByLandlord(ctx context.Context, actor lifecycle.Actor, landlordID string) ([]Member, error) {
	if err := lifecycle.AuthorizeUser(actor, landlordID); err != nil {
		return nil, err
	}
	return s.repo.ListByLandlord(ctx, landlordID)
}

func (s *Service) ListByMember(ctx context.Context, memberID string) ([]Member, error) {
	return s.repo.ListByMember(ctx, memberID)
}

// CanAct reports whether userID is an active member of the landlord's team
// whose role grants the capability over the property.
func (s *Service) CanAct(ctx context.Context, landlordID, userID, propertyID string, capability lifecycle.Capability) (bool, error) {
	member, err := s.repo.FindCurrent(ctx, landlordID, userID)
	if errors.Is(err, ErrMemberNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if member.Status != StatusActive {
		return false, nil
	}
	return member.Role.Grants(capability) && member.Covers(propertyID), nil
}

func (s *Service) apply(ctx context.Context, action, id string, mutate func(member *Member) error) (*Member, error) {
	var result *Member
	err := lifecycle.RetryOnConflict(ctx, func(ctx context.Context) error {
		member, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		expected := member.Version
		if err := mutate(member); err != nil {
			return err
		}
		member.Version++
		if err := s.repo.Update(ctx, member, expected); err != nil {
			return err
		}
		result = member
		return nil
	})
	s.deps.Observer.Transition(entityName, action, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}
