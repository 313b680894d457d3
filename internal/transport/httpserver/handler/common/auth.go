package common

import (
	"errors"
	"net/http"
	"time"

	userdomain "rental-app-go/internal/domain/user"
	"rental-app-go/internal/transport/httpserver/middleware"
)

type authMeResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	AvatarURL string     `json:"avatar_url"`
	Role      string     `json:"role"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	resp := authMeResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Role:      string(user.Actor().Role),
	}

	if h.Users != nil {
		profile, err := h.Users.GetProfile(r.Context(), user.ID)
		switch {
		case errors.Is(err, userdomain.ErrProfileNotFound):
		case err != nil:
			h.log.InternalError("auth.me: get profile failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		default:
			resp.CreatedAt = &profile.CreatedAt
			if resp.Name == "" {
				resp.Name = profile.DisplayName()
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
