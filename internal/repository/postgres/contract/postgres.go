package contract

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	database "rental-app-go/internal/db"
	domain "rental-app-go/internal/domain/contract"
	"rental-app-go/internal/domain/lifecycle"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, contract *domain.Contract) error {
	return database.Conn(ctx, r.db).Create(contract).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Contract, error) {
	var contract domain.Contract
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&contract).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrContractNotFound
		}
		return nil, err
	}
	return &contract, nil
}

func (r *PostgresRepository) ListByLandlord(ctx context.Context, landlordID string, filter domain.ListFilter) ([]domain.Contract, error) {
	return r.list(ctx, "landlord_id = ?", landlordID, filter)
}

func (r *PostgresRepository) ListByTenant(ctx context.Context, tenantID string, filter domain.ListFilter) ([]domain.Contract, error) {
	return r.list(ctx, "tenant_id = ?", tenantID, filter)
}

func (r *PostgresRepository) list(ctx context.Context, ownerClause, ownerID string, filter domain.ListFilter) ([]domain.Contract, error) {
	query := database.Conn(ctx, r.db).Where(ownerClause, ownerID)
	if filter.Status != nil {
		asOf := filter.AsOf
		if asOf.IsZero() {
			asOf = time.Now().UTC()
		}
		today := lifecycle.DateOf(asOf)

		switch *filter.Status {
		case domain.StatusExpired:
			query = query.Where("status = ? AND end_date < ?", domain.StatusActive, today)
		case domain.StatusActive:
			query = query.Where("status = ? AND end_date >= ?", domain.StatusActive, today)
		default:
			query = query.Where("status = ?", *filter.Status)
		}
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var contracts []domain.Contract
	if err := query.Order("created_at desc").Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *PostgresRepository) Update(ctx context.Context, contract *domain.Contract, expectedVersion int) error {
	return database.UpdateVersioned(ctx, r.db, contract, expectedVersion)
}
