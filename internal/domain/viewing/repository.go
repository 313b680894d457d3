package viewing

import "context"

type Repository interface {
	Create(ctx context.Context, appointment *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	ListByLandlord(ctx context.Context, landlordID string, filter ListFilter) ([]Appointment, error)
	ListByTenant(ctx context.Context, tenantID string, filter ListFilter) ([]Appointment, error)
	Update(ctx context.Context, appointment *Appointment, expectedVersion int) error
}
