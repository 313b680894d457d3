package property

import (
	"context"
	"errors"

	"gorm.io/gorm"

	database "rental-app-go/internal/db"
	domain "rental-app-go/internal/domain/property"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, property *domain.Property) error {
	return database.Conn(ctx, r.db).Create(property).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	var property domain.Property
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

func (r *PostgresRepository) ListByLandlord(ctx context.Context, landlordID string, filter domain.ListFilter) ([]domain.Property, error) {
	query := database.Conn(ctx, r.db).Where("landlord_id = ?", landlordID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var properties []domain.Property
	if err := query.Order("created_at desc").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *PostgresRepository) Update(ctx context.Context, property *domain.Property, expectedVersion int) error {
	return database.UpdateVersioned(ctx, r.db, property, expectedVersion)
}
