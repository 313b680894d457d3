package team

import "context"

type Repository interface {
	Create(ctx context.Context, member *Member) error
	GetByID(ctx context.Context, id string) (*Member, error)
	// FindCurrent returns the latest non-removed membership of memberID in the
	// landlord's team, or ErrMemberNotFound.
	FindCurrent(ctx context.Context, landlordID, memberID string) (*Member, error)
	ListByLandlord(ctx context.Context, landlordID string) ([]Member, error)
	ListByMember(ctx context.Context, memberID string) ([]Member, error)
	Update(ctx context.Context, member *Member, expectedVersion int) error
}
