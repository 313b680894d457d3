package common

import (
	"context"
	"net/http"
	"strings"

	"rental-app-go/internal/domain/lifecycle"
)

type Side string

const (
	SideLandlord Side = "landlord"
	SideTenant   Side = "tenant"
)

// ListScope names whose records a list request reads.
type ListScope struct {
	Side    Side
	OwnerID string
}

// ResolveListScope reads ?as=landlord|tenant (defaulting from the caller's
// role) and the optional landlord_id / tenant_id. Reading another landlord's
// records needs admin or a delegated capability; another tenant's needs admin.
func ResolveListScope(ctx context.Context, r *http.Request, actor lifecycle.Actor, delegation lifecycle.Delegation, capability lifecycle.Capability) (ListScope, error) {
	query := r.URL.Query()

	side := Side(strings.TrimSpace(query.Get("as")))
	switch side {
	case "":
		side = SideLandlord
		if actor.Role == lifecycle.RoleTenant {
			side = SideTenant
		}
	case SideLandlord, SideTenant:
	default:
		return ListScope{}, lifecycle.Invalid("as", "must be landlord or tenant")
	}

	if side == SideTenant {
		owner := strings.TrimSpace(query.Get("tenant_id"))
		if owner == "" {
			owner = actor.UserID
		}
		if err := lifecycle.AuthorizeUser(actor, owner); err != nil {
			return ListScope{}, err
		}
		return ListScope{Side: side, OwnerID: owner}, nil
	}

	owner := strings.TrimSpace(query.Get("landlord_id"))
	if owner == "" {
		owner = actor.UserID
	}
	if err := AuthorizeLandlord(ctx, delegation, actor, owner, capability); err != nil {
		return ListScope{}, err
	}
	return ListScope{Side: side, OwnerID: owner}, nil
}

// AuthorizeLandlord checks access to all of a landlord's records. A nil
// delegation admits only the landlord and admins.
func AuthorizeLandlord(ctx context.Context, delegation lifecycle.Delegation, actor lifecycle.Actor, landlordID string, capability lifecycle.Capability) error {
	if delegation == nil {
		return lifecycle.AuthorizeUser(actor, landlordID)
	}
	return lifecycle.AuthorizeLandlordSide(ctx, delegation, actor, landlordID, "", capability)
}
