package billing

import (
	"context"
	"time"
)

type Repository interface {
	// CreateBatch inserts bills, skipping any that collide with an existing
	// (contract, due date, type) row.
	CreateBatch(ctx context.Context, payments []Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	ListByContract(ctx context.Context, contractID string, paymentType PaymentType) ([]Payment, error)
	ListByTenant(ctx context.Context, tenantID string, filter ListFilter) ([]Payment, error)
	ListByLandlord(ctx context.Context, landlordID string, filter ListFilter) ([]Payment, error)
	ListDueForReminder(ctx context.Context, dueOnOrBefore time.Time, limit int) ([]Payment, error)
	Update(ctx context.Context, payment *Payment, expectedVersion int) error
}
