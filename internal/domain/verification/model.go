package verification

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Kind string

const (
	KindIdentity Kind = "identity"
	KindProperty Kind = "property"
)

type Verification struct {
	ID                string  `gorm:"type:uuid;primaryKey"`
	UserID            string  `gorm:"type:uuid;not null;index"`
	Kind              Kind    `gorm:"type:varchar(16);not null"`
	RealName          string  `gorm:"not null;default:''"`
	IDNumber          string  `gorm:"not null;default:''"`
	IDCardFront       *string `gorm:"type:text"`
	IDCardBack        *string `gorm:"type:text"`
	PropertyCertImage *string `gorm:"type:text"`
	Status            Status  `gorm:"type:varchar(16);not null;index"`
	ReviewedBy        *string `gorm:"type:uuid"`
	ReviewedAt        *time.Time
	RejectedReason    *string   `gorm:"type:text"`
	Version           int       `gorm:"not null;default:1"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (Verification) TableName() string {
	return "user_verifications"
}

type SubmitInput struct {
	Kind              Kind
	RealName          string
	IDNumber          string
	IDCardFront       string
	IDCardBack        string
	PropertyCertImage string
}
