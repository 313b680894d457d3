package contract

import "context"

type Repository interface {
	Create(ctx context.Context, contract *Contract) error
	GetByID(ctx context.Context, id string) (*Contract, error)
	ListByLandlord(ctx context.Context, landlordID string, filter ListFilter) ([]Contract, error)
	ListByTenant(ctx context.Context, tenantID string, filter ListFilter) ([]Contract, error)
	Update(ctx context.Context, contract *Contract, expectedVersion int) error
}
