package common

import (
	"net/http"

	"rental-app-go/internal/domain/lifecycle"
	"rental-app-go/internal/transport/httpserver/middleware"
)

// ActorFromRequest returns the authenticated caller. On failure it has
// already written a 401.
func ActorFromRequest(w http.ResponseWriter, r *http.Request) (lifecycle.Actor, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return lifecycle.Actor{}, false
	}
	return user.Actor(), true
}
