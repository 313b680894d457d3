package viewing

import (
	"time"

	"rental-app-go/internal/domain/lifecycle"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusConfirmed   Status = "confirmed"
	StatusRescheduled Status = "rescheduled"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
)

func ParseStatus(value string) (Status, bool) {
	switch Status(value) {
	case StatusPending, StatusConfirmed, StatusRescheduled, StatusCompleted, StatusCancelled:
		return Status(value), true
	default:
		return "", false
	}
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Side identifies which party of an appointment acted.
type Side string

const (
	SideLandlord  Side = "landlord"
	SideRequester Side = "requester"
)

const DefaultSource = "miniapp"

type Appointment struct {
	ID               string     `gorm:"type:uuid;primaryKey"`
	PropertyID       string     `gorm:"type:uuid;not null;index"`
	LandlordID       string     `gorm:"type:uuid;not null;index"`
	TenantID         *string    `gorm:"type:uuid;index"`
	GuestName        string     `gorm:"not null;default:''"`
	GuestPhone       string     `gorm:"not null;default:''"`
	AppointmentDate  time.Time  `gorm:"type:date;not null"`
	AppointmentTime  string     `gorm:"type:varchar(5);not null"`
	Notes            string     `gorm:"type:text;not null;default:''"`
	Source           string     `gorm:"type:varchar(32);not null"`
	OperatorID       *string    `gorm:"type:uuid"`
	Status           Status     `gorm:"type:varchar(16);not null;index"`
	RescheduleDate   *time.Time `gorm:"type:date"`
	RescheduleTime   *string    `gorm:"type:varchar(5)"`
	RescheduleReason *string    `gorm:"type:text"`
	RescheduledBy    *Side      `gorm:"type:varchar(16)"`
	CancelReason     *string    `gorm:"type:text"`
	CompletedAt      *time.Time
	Version          int       `gorm:"not null;default:1"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (Appointment) TableName() string {
	return "viewing_appointments"
}

func (a Appointment) tenantID() string {
	if a.TenantID == nil {
		return ""
	}
	return *a.TenantID
}

// IsGuest reports a walk-in booking without a tenant account.
func (a Appointment) IsGuest() bool {
	return a.tenantID() == ""
}

// StartsAt combines the appointment date and clock time in UTC.
func (a Appointment) StartsAt() time.Time {
	clock, err := time.Parse(lifecycle.TimeLayout, a.AppointmentTime)
	if err != nil {
		return lifecycle.DateOf(a.AppointmentDate)
	}
	return lifecycle.DateOf(a.AppointmentDate).Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
}

func (a *Appointment) clearProposal() {
	a.RescheduleDate = nil
	a.RescheduleTime = nil
	a.RescheduleReason = nil
	a.RescheduledBy = nil
}

type RequestInput struct {
	PropertyID string
	TenantID   string
	GuestName  string
	GuestPhone string
	Date       time.Time
	Time       string
	Notes      string
	Source     string
}

type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}
