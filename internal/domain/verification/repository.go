package verification

import "context"

type Repository interface {
	Create(ctx context.Context, verification *Verification) error
	GetByID(ctx context.Context, id string) (*Verification, error)
	// Latest returns the most recent record of the user, optionally limited to
	// one kind, or ErrVerificationNotFound.
	Latest(ctx context.Context, userID string, kind Kind) (*Verification, error)
	ListPending(ctx context.Context, limit int) ([]Verification, error)
	Update(ctx context.Context, verification *Verification, expectedVersion int) error
}
