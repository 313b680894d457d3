package property

import "context"

type Repository interface {
	Create(ctx context.Context, property *Property) error
	GetByID(ctx context.Context, id string) (*Property, error)
	ListByLandlord(ctx context.Context, landlordID string, filter ListFilter) ([]Property, error)
	Update(ctx context.Context, property *Property, expectedVersion int) error
}
