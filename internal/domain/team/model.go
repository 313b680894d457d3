package team

import (
	"slices"
	"time"

	"rental-app-go/internal/domain/lifecycle"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusRemoved Status = "removed"
)

type Role string

const (
	RoleManager     Role = "manager"
	RoleSales       Role = "sales"
	RoleFinance     Role = "finance"
	RoleMaintenance Role = "maintenance"
)

var roleCapabilities = map[Role][]lifecycle.Capability{
	RoleManager:     {lifecycle.CapabilityProperties, lifecycle.CapabilityViewings, lifecycle.CapabilityRepairs},
	RoleSales:       {lifecycle.CapabilityViewings, lifecycle.CapabilityContracts},
	RoleFinance:     {lifecycle.CapabilityPayments},
	RoleMaintenance: {lifecycle.CapabilityRepairs},
}

func ParseRole(value string) (Role, bool) {
	role := Role(value)
	_, ok := roleCapabilities[role]
	return role, ok
}

func (r Role) Grants(capability lifecycle.Capability) bool {
	return slices.Contains(roleCapabilities[r], capability)
}

type Scope string

const (
	ScopeAll    Scope = "all"
	ScopeSubset Scope = "subset"
)

type Member struct {
	ID            string                      `gorm:"type:uuid;primaryKey"`
	LandlordID    string                      `gorm:"type:uuid;not null;index"`
	MemberID      string                      `gorm:"type:uuid;not null;index"`
	Role          Role                        `gorm:"type:varchar(16);not null"`
	PropertyScope Scope                       `gorm:"type:varchar(16);not null"`
	PropertyIDs   datatypes.JSONSlice[string] `gorm:"type:json"`
	Status        Status                      `gorm:"type:varchar(16);not null;index"`
	JoinedAt      *time.Time
	RemovedAt     *time.Time
	Version       int       `gorm:"not null;default:1"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Member) TableName() string {
	return "team_members"
}

// Covers reports whether the member's scope includes the property. An empty
// property id means the operation is not tied to one property.
func (m Member) Covers(propertyID string) bool {
	if m.PropertyScope == ScopeAll {
		return true
	}
	if propertyID == "" {
		return false
	}
	return slices.Contains(m.PropertyIDs, propertyID)
}

type InviteInput struct {
	LandlordID    string
	MemberID      string
	Role          Role
	PropertyScope Scope
	PropertyIDs   []string
}

type RoleInput struct {
	Role          Role
	PropertyScope Scope
	PropertyIDs   []string
}
