package contract

import (
	"time"

	"rental-app-go/internal/domain/lifecycle"
)

type Status string

const (
	StatusPendingTenant   Status = "pending_tenant"
	StatusPendingLandlord Status = "pending_landlord"
	StatusSigned          Status = "signed"
	StatusActive          Status = "active"
	StatusTerminated      Status = "terminated"
	// StatusExpired is derived from an active contract past its end date.
	StatusExpired Status = "expired"
)

func ParseStatus(value string) (Status, bool) {
	switch Status(value) {
	case StatusPendingTenant, StatusPendingLandlord, StatusSigned, StatusActive, StatusTerminated, StatusExpired:
		return Status(value), true
	default:
		return "", false
	}
}

func (s Status) pending() bool {
	return s == StatusPendingTenant || s == StatusPendingLandlord
}

type Party string

const (
	PartyLandlord Party = "landlord"
	PartyTenant   Party = "tenant"
)

func (p Party) Valid() bool {
	return p == PartyLandlord || p == PartyTenant
}

func (p Party) other() Party {
	if p == PartyLandlord {
		return PartyTenant
	}
	return PartyLandlord
}

// awaiting is the status of a contract still missing the given party's signature.
func awaiting(p Party) Status {
	if p == PartyLandlord {
		return StatusPendingLandlord
	}
	return StatusPendingTenant
}

type Contract struct {
	ID                string     `gorm:"type:uuid;primaryKey"`
	PropertyID        string     `gorm:"type:uuid;not null;index"`
	LandlordID        string     `gorm:"type:uuid;not null;index"`
	TenantID          string     `gorm:"type:uuid;not null;index"`
	TemplateID        string     `gorm:"not null;default:''"`
	RentAmount        float64    `gorm:"type:decimal(12,2);not null"`
	DepositAmount     float64    `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentDay        int        `gorm:"not null"`
	StartDate         time.Time  `gorm:"type:date;not null"`
	EndDate           time.Time  `gorm:"type:date;not null"`
	CustomContent     string     `gorm:"type:text;not null;default:''"`
	InitiatedBy       Party      `gorm:"type:varchar(16);not null"`
	LandlordSignature *string    `gorm:"type:text"`
	LandlordSignedAt  *time.Time
	TenantSignature   *string `gorm:"type:text"`
	TenantSignedAt    *time.Time
	Status            Status  `gorm:"type:varchar(20);not null;index"`
	ActivatedAt       *time.Time
	TerminationReason *string `gorm:"type:text"`
	TerminatedAt      *time.Time
	Version           int       `gorm:"not null;default:1"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// EffectiveStatus reports expired for an active contract whose end date has
// passed; the stored status stays active.
func (c Contract) EffectiveStatus(now time.Time) Status {
	if c.Status == StatusActive && lifecycle.DateOf(c.EndDate).Before(lifecycle.DateOf(now)) {
		return StatusExpired
	}
	return c.Status
}

func (c Contract) signatureOf(p Party) *string {
	if p == PartyLandlord {
		return c.LandlordSignature
	}
	return c.TenantSignature
}

func (c *Contract) sign(p Party, signature string, at time.Time) {
	if p == PartyLandlord {
		c.LandlordSignature = &signature
		c.LandlordSignedAt = &at
		return
	}
	c.TenantSignature = &signature
	c.TenantSignedAt = &at
}

// SignedContract is a contract holding both signatures.
type SignedContract struct {
	Contract
	LandlordSignature string
	LandlordSignedAt  time.Time
	TenantSignature   string
	TenantSignedAt    time.Time
}

// Signed returns the signed view, or false while a signature is missing.
func (c Contract) Signed() (SignedContract, bool) {
	if c.LandlordSignature == nil || c.LandlordSignedAt == nil || c.TenantSignature == nil || c.TenantSignedAt == nil {
		return SignedContract{}, false
	}
	return SignedContract{
		Contract:          c,
		LandlordSignature: *c.LandlordSignature,
		LandlordSignedAt:  *c.LandlordSignedAt,
		TenantSignature:   *c.TenantSignature,
		TenantSignedAt:    *c.TenantSignedAt,
	}, true
}

type CreateInput struct {
	PropertyID    string
	LandlordID    string
	TenantID      string
	TemplateID    string
	RentAmount    float64
	DepositAmount float64
	PaymentDay    int
	StartDate     time.Time
	EndDate       time.Time
	CustomContent string
	InitiatedBy   Party
}

// ListFilter matches the effective status, so expired selects active
// contracts past their end date and active excludes them.
type ListFilter struct {
	Status *Status
	AsOf   time.Time
	Limit  int
	Offset int
}
