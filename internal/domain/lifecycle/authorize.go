package lifecycle

import "context"

// AuthorizeLandlordSide permits the landlord, an admin, or a team member the
// landlord delegated the capability to for the property.
func AuthorizeLandlordSide(ctx context.Context, delegation Delegation, actor Actor, landlordID, propertyID string, capability Capability) error {
	if actor.IsAdmin() || actor.Is(landlordID) {
		return nil
	}
	if actor.UserID == "" {
		return ErrForbidden
	}
	ok, err := delegation.CanAct(ctx, landlordID, actor.UserID, propertyID, capability)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func AuthorizeUser(actor Actor, userID string) error {
	if actor.IsAdmin() || actor.Is(userID) {
		return nil
	}
	return ErrForbidden
}
