package repair

import (
	"context"
	"errors"

	"gorm.io/gorm"

	database "rental-app-go/internal/db"
	domain "rental-app-go/internal/domain/repair"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, order *domain.Order) error {
	return database.Conn(ctx, r.db).Create(order).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *PostgresRepository) ListByLandlord(ctx context.Context, landlordID string, filter domain.ListFilter) ([]domain.Order, error) {
	return r.list(ctx, "landlord_id = ?", landlordID, filter)
}

func (r *PostgresRepository) ListByTenant(ctx context.Context, tenantID string, filter domain.ListFilter) ([]domain.Order, error) {
	return r.list(ctx, "tenant_id = ?", tenantID, filter)
}

func (r *PostgresRepository) list(ctx context.Context, ownerClause, ownerID string, filter domain.ListFilter) ([]domain.Order, error) {
	query := database.Conn(ctx, r.db).Where(ownerClause, ownerID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var orders []domain.Order
	if err := query.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresRepository) Update(ctx context.Context, order *domain.Order, expectedVersion int) error {
	return database.UpdateVersioned(ctx, r.db, order, expectedVersion)
}
