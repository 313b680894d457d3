package verification

import (
	"context"
	"errors"
	"strings"

	"rental-app-go/internal/domain/lifecycle"

	"github.com/google/uuid"
)

const (
	entityName          = "verification"
	defaultPendingLimit = 50
)

type Service struct {
	repo Repository
	deps lifecycle.Deps
}

func NewService(repo Repository, deps lifecycle.Deps) *Service {
	return &Service{repo: repo, deps: deps.WithDefaults()}
}

// Submit files a new verification. A rejected record is never reopened;
// resubmitting creates a fresh one.
func (s *Service) Submit(ctx context.Context, actor lifecycle.Actor, input SubmitInput) (*Verification, error) {
	if actor.UserID == "" {
		return nil, lifecycle.ErrForbidden
	}
	record := Verification{
		ID:       uuid.NewString(),
		UserID:   actor.UserID,
		Kind:     input.Kind,
		RealName: strings.TrimSpace(input.RealName),
		IDNumber: strings.TrimSpace(input.IDNumber),
		Status:   StatusPending,
		Version:  1,
	}
	if record.Kind == "" {
		record.Kind = KindIdentity
	}
	switch record.Kind {
	case KindIdentity:
		front, back := strings.TrimSpace(input.IDCardFront), strings.TrimSpace(input.IDCardBack)
		if front == "" || back == "" {
			return nil, lifecycle.Invalid("id_card", "front and back images are required")
		}
		record.IDCardFront = &front
		record.IDCardBack = &back
	case KindProperty:
		cert := strings.TrimSpace(input.PropertyCertImage)
		if cert == "" {
			return nil, lifecycle.Invalid("property_cert_image", "is required")
		}
		record.PropertyCertImage = &cert
	default:
		return nil, lifecycle.Invalid("kind", "must be identity or property")
	}

	err := s.deps.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		latest, err := s.repo.Latest(ctx, actor.UserID, record.Kind)
		switch {
		case errors.Is(err, ErrVerificationNotFound):
		case err != nil:
			return err
		case latest.Status == StatusPending:
			return ErrReviewPending
		case latest.Status == StatusApproved:
			return ErrAlreadyVerified
		}
		return s.repo.Create(ctx, &record)
	})
	s.deps.Observer.Transition(entityName, "submit", err)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Service) Approve(ctx context.Context, actor lifecycle.Actor, id string) (*Verification, error) {
	return s.review(ctx, actor, id, "approve", func(record *Verification) {
		record.Status = StatusApproved
	})
}

func (s *Service) Reject(ctx context.Context, actor lifecycle.Actor, id, reason string) (*Verification, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, lifecycle.Invalid("reason", "is required")
	}
	return s.review(ctx, actor, id, "reject", func(record *Verification) {
		record.Status = StatusRejected
		record.RejectedReason = &reason
	})
}

// GetByUser returns the user's most recent verification of any kind.
func (s *Service) GetByUser(ctx context.Context, actor lifecycle.Actor, userID string) (*Verification, error) {
	if err := lifecycle.AuthorizeUser(actor, userID); err != nil {
		return nil, err
	}
	return s.repo.Latest(ctx, userID, "")
}

func (s *Service) ListPending(ctx context.Context, actor lifecycle.Actor, limit int) ([]Verification, error) {
	if !actor.IsAdmin() {
		return nil, lifecycle.ErrForbidden
	}
	if limit <= 0 {
		limit = defaultPendingLimit
	}
	return s.repo.ListPending(ctx, limit)
}

func (s *Service) review(ctx context.Context, actor lifecycle.Actor, id, action string, decide func(record *Verification)) (*Verification, error) {
	if !actor.IsAdmin() {
		return nil, lifecycle.ErrForbidden
	}

	var result *Verification
	err := lifecycle.RetryOnConflict(ctx, func(ctx context.Context) error {
		record, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if record.Status != StatusPending {
			return lifecycle.InvalidTransition(entityName, record.ID, action, string(record.Status))
		}
		now := s.deps.Now()
		reviewer := actor.UserID
		expected := record.Version
		decide(record)
		record.ReviewedBy = &reviewer
		record.ReviewedAt = &now
		record.Version++
		if err := s.repo.Update(ctx, record, expected); err != nil {
			return err
		}
		result = record
		return nil
	})
	s.deps.Observer.Transition(entityName, action, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}
