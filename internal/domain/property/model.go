package property

import "time"

type Status string

const (
	StatusAvailable   Status = "available"
	StatusRented      Status = "rented"
	StatusMaintenance Status = "maintenance"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusRented, StatusMaintenance:
		return true
	default:
		return false
	}
}

type Property struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	LandlordID string    `gorm:"type:uuid;index;not null"`
	Title      string    `gorm:"not null"`
	Address    string    `gorm:"not null;default:''"`
	RentAmount float64   `gorm:"type:decimal(12,2);not null"`
	Status     Status    `gorm:"type:varchar(16);not null;index"`
	Version    int       `gorm:"not null;default:1"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}

type CreateInput struct {
	LandlordID string
	Title      string
	Address    string
	RentAmount float64
}
