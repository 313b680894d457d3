package repair

import (
	"time"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusConfirmed  Status = "confirmed"
)

var statusRank = map[Status]int{
	StatusPending:    0,
	StatusAssigned:   1,
	StatusInProgress: 2,
	StatusCompleted:  3,
	StatusConfirmed:  4,
}

func ParseStatus(value string) (Status, bool) {
	status := Status(value)
	_, ok := statusRank[status]
	return status, ok
}

// Before reports whether s precedes other in the repair progression.
func (s Status) Before(other Status) bool {
	return statusRank[s] < statusRank[other]
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// Party names who is responsible for, or pays for, a repair.
type Party string

const (
	PartyLandlord Party = "landlord"
	PartyTenant   Party = "tenant"
)

func (p Party) Valid() bool {
	return p == PartyLandlord || p == PartyTenant
}

type Order struct {
	ID               string                      `gorm:"type:uuid;primaryKey"`
	PropertyID       string                      `gorm:"type:uuid;not null;index"`
	TenantID         string                      `gorm:"type:uuid;not null;index"`
	LandlordID       string                      `gorm:"type:uuid;not null;index"`
	Title            string                      `gorm:"not null"`
	Description      string                      `gorm:"type:text;not null;default:''"`
	Images           datatypes.JSONSlice[string] `gorm:"type:json"`
	Category         string                      `gorm:"type:varchar(32);not null;default:''"`
	Priority         Priority                    `gorm:"type:varchar(16);not null"`
	Status           Status                      `gorm:"type:varchar(16);not null;index"`
	AssignedTo       *string
	AssignedType     *string                     `gorm:"type:varchar(32)"`
	Responsibility   *Party                      `gorm:"type:varchar(16)"`
	CompletionNotes  *string                     `gorm:"type:text"`
	CompletionImages datatypes.JSONSlice[string] `gorm:"type:json"`
	Cost             *float64                    `gorm:"type:decimal(12,2)"`
	CostBearer       *Party                      `gorm:"type:varchar(16)"`
	AssignedAt       *time.Time
	CompletedAt      *time.Time
	ConfirmedAt      *time.Time
	Version          int       `gorm:"not null;default:1"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (Order) TableName() string {
	return "repair_orders"
}

type CreateInput struct {
	PropertyID  string
	TenantID    string
	Title       string
	Description string
	Images      []string
	Category    string
	Priority    Priority
}

type AssignInput struct {
	AssignedTo     string
	AssignedType   string
	Responsibility Party
}

type CompleteInput struct {
	Notes      string
	Images     []string
	Cost       float64
	CostBearer Party
}

type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}
