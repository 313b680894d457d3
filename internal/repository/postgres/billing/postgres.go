package billing

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	database "rental-app-go/internal/db"
	domain "rental-app-go/internal/domain/billing"
)

const createBatchSize = 100

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateBatch relies on the (contract_id, due_date, payment_type) unique
// index: rows already scheduled are skipped, not duplicated.
func (r *PostgresRepository) CreateBatch(ctx context.Context, payments []domain.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&payments, createBatchSize).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	var payment domain.Payment
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PostgresRepository) ListByContract(ctx context.Context, contractID string, paymentType domain.PaymentType) ([]domain.Payment, error) {
	var payments []domain.Payment
	if err := database.Conn(ctx, r.db).
		Where("contract_id = ? AND payment_type = ?", contractID, paymentType).
		Order("due_date asc").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *PostgresRepository) ListByTenant(ctx context.Context, tenantID string, filter domain.ListFilter) ([]domain.Payment, error) {
	return r.list(ctx, "tenant_id = ?", tenantID, filter)
}

func (r *PostgresRepository) ListByLandlord(ctx context.Context, landlordID string, filter domain.ListFilter) ([]domain.Payment, error) {
	return r.list(ctx, "landlord_id = ?", landlordID, filter)
}

func (r *PostgresRepository) list(ctx context.Context, ownerClause, ownerID string, filter domain.ListFilter) ([]domain.Payment, error) {
	query := database.Conn(ctx, r.db).Where(ownerClause, ownerID)
	query = applyStatus(query, filter)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var payments []domain.Payment
	if err := query.Order("due_date asc").Order("created_at asc").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// applyStatus filters on the effective status. Overdue is the same
// projection as Payment.EffectiveStatus, expressed in SQL.
func applyStatus(query *gorm.DB, filter domain.ListFilter) *gorm.DB {
	if filter.Status == nil {
		return query
	}
	asOf := filter.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	cutoff := domain.OverdueCutoff(asOf)

	switch *filter.Status {
	case domain.StatusOverdue:
		return query.Where("status = ? AND due_date < ?", domain.StatusPending, cutoff)
	case domain.StatusPending:
		return query.Where("status = ? AND due_date >= ?", domain.StatusPending, cutoff)
	default:
		return query.Where("status = ?", *filter.Status)
	}
}

func (r *PostgresRepository) ListDueForReminder(ctx context.Context, dueOnOrBefore time.Time, limit int) ([]domain.Payment, error) {
	query := database.Conn(ctx, r.db).
		Where("status = ? AND reminded_at IS NULL AND due_date <= ?", domain.StatusPending, dueOnOrBefore).
		Order("due_date asc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var payments []domain.Payment
	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *PostgresRepository) Update(ctx context.Context, payment *domain.Payment, expectedVersion int) error {
	return database.UpdateVersioned(ctx, r.db, payment, expectedVersion)
}
