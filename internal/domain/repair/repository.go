package repair

import "context"

type Repository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByLandlord(ctx context.Context, landlordID string, filter ListFilter) ([]Order, error)
	ListByTenant(ctx context.Context, tenantID string, filter ListFilter) ([]Order, error)
	Update(ctx context.Context, order *Order, expectedVersion int) error
}
