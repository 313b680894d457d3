package billing

import (
	"time"

	"rental-app-go/internal/domain/lifecycle"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusConfirmed Status = "confirmed"
	// StatusOverdue is never stored. It is the read-time projection of a
	// pending bill whose due date has passed.
	StatusOverdue Status = "overdue"
)

func ParseStatus(value string) (Status, bool) {
	switch Status(value) {
	case StatusPending, StatusPaid, StatusConfirmed, StatusOverdue:
		return Status(value), true
	default:
		return "", false
	}
}

type PaymentType string

const (
	PaymentTypeRent        PaymentType = "rent"
	PaymentTypeDeposit     PaymentType = "deposit"
	PaymentTypeUtilities   PaymentType = "utilities"
	PaymentTypeMaintenance PaymentType = "maintenance"
)

type Payment struct {
	ID          string      `gorm:"type:uuid;primaryKey"`
	ContractID  string      `gorm:"type:uuid;not null;uniqueIndex:idx_payments_schedule,priority:1"`
	PropertyID  string      `gorm:"type:uuid;not null;index"`
	TenantID    string      `gorm:"type:uuid;not null;index"`
	LandlordID  string      `gorm:"type:uuid;not null;index"`
	Amount      float64     `gorm:"type:decimal(12,2);not null"`
	PaymentType PaymentType `gorm:"type:varchar(16);not null;uniqueIndex:idx_payments_schedule,priority:3"`
	DueDate     time.Time   `gorm:"type:date;not null;uniqueIndex:idx_payments_schedule,priority:2"`
	Status      Status      `gorm:"type:varchar(16);not null;index"`
	ProofURL    *string     `gorm:"type:text"`
	PaidDate    *time.Time  `gorm:"type:date"`
	ConfirmedAt *time.Time
	RemindedAt  *time.Time
	Version     int       `gorm:"not null;default:1"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// OverdueCutoff is the first date that is not overdue as of now. A pending
// bill is overdue when its due date falls before this date.
func OverdueCutoff(now time.Time) time.Time {
	return lifecycle.DateOf(now)
}

func IsOverdue(status Status, dueDate, now time.Time) bool {
	return status == StatusPending && lifecycle.DateOf(dueDate).Before(OverdueCutoff(now))
}

func (p Payment) EffectiveStatus(now time.Time) Status {
	if IsOverdue(p.Status, p.DueDate, now) {
		return StatusOverdue
	}
	return p.Status
}

// ContractTerms is the slice of an active contract the schedule depends on.
type ContractTerms struct {
	ContractID string
	PropertyID string
	TenantID   string
	LandlordID string
	RentAmount float64
	PaymentDay int
	StartDate  time.Time
	EndDate    time.Time
}

// ListFilter selects bills by effective status. Pending and overdue are
// disjoint: pending means not yet due as of AsOf.
type ListFilter struct {
	Status *Status
	AsOf   time.Time
	Limit  int
	Offset int
}

type Summary struct {
	PendingCount    int     `json:"pending_count"`
	PendingAmount   float64 `json:"pending_amount"`
	OverdueCount    int     `json:"overdue_count"`
	OverdueAmount   float64 `json:"overdue_amount"`
	PaidCount       int     `json:"paid_count"`
	PaidAmount      float64 `json:"paid_amount"`
	ConfirmedCount  int     `json:"confirmed_count"`
	ConfirmedAmount float64 `json:"confirmed_amount"`
}
