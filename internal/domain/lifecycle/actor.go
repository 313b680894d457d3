package lifecycle

type Role string

const (
	RoleLandlord Role = "landlord"
	RoleTenant   Role = "tenant"
	RoleAgent    Role = "agent"
	RoleAdmin    Role = "admin"
)

func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleLandlord, RoleTenant, RoleAgent, RoleAdmin:
		return Role(value), true
	default:
		return "", false
	}
}

// Actor is the authenticated user performing an operation.
type Actor struct {
	UserID string
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) Is(userID string) bool {
	return a.UserID != "" && a.UserID == userID
}
