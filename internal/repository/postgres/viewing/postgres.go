package viewing

import (
	"context"
	"errors"

	"gorm.io/gorm"

	database "rental-app-go/internal/db"
	domain "rental-app-go/internal/domain/viewing"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, appointment *domain.Appointment) error {
	return database.Conn(ctx, r.db).Create(appointment).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	var appointment domain.Appointment
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *PostgresRepository) ListByLandlord(ctx context.Context, landlordID string, filter domain.ListFilter) ([]domain.Appointment, error) {
	return r.list(ctx, "landlord_id = ?", landlordID, filter)
}

func (r *PostgresRepository) ListByTenant(ctx context.Context, tenantID string, filter domain.ListFilter) ([]domain.Appointment, error) {
	return r.list(ctx, "tenant_id = ?", tenantID, filter)
}

func (r *PostgresRepository) list(ctx context.Context, ownerClause, ownerID string, filter domain.ListFilter) ([]domain.Appointment, error) {
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

	var appointments []domain.Appointment
	if err := query.
		Order("appointment_date asc").
		Order("appointment_time asc").
		Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *PostgresRepository) Update(ctx context.Context, appointment *domain.Appointment, expectedVersion int) error {
	return database.UpdateVersioned(ctx, r.db, appointment, expectedVersion)
}
