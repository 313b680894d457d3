package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"rental-app-go/internal/config"
	"rental-app-go/internal/domain/lifecycle"
	"rental-app-go/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

type SupabaseAuth struct {
	baseURL   string
	apiKey    string
	jwtSecret []byte
	client    *http.Client
	profiles  ProfileSaver
	skipAuth  bool
	mockUser  User
	log       logger.Logger
}

type contextKey int

const (
	userIDKey contextKey = iota
	userKey
)

type userResponse struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	Sub          string                 `json:"sub"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	AppMetadata  map[string]interface{} `json:"app_metadata"`
	User         struct {
		ID  string `json:"id"`
		Sub string `json:"sub"`
	} `json:"user"`
}

// supabaseClaims is the payload of a Supabase access token.
type supabaseClaims struct {
	jwt.RegisteredClaims
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	AppMetadata  map[string]interface{} `json:"app_metadata"`
}

type User struct {
	ID        string
	Email     string
	Name      string
	AvatarURL string
	Role      lifecycle.Role
	Locale    string
}

func (u User) Actor() lifecycle.Actor {
	role := u.Role
	if role == "" {
		role = lifecycle.RoleTenant
	}
	return lifecycle.Actor{UserID: u.ID, Role: role}
}

type ProfileSaver interface {
	UpsertProfile(ctx context.Context, userID, email, name, avatarURL, role, locale string) error
}

var errInvalidToken = errors.New("invalid token")

func NewSupabaseAuth(cfg config.AuthConfig, profiles ProfileSaver, log logger.Logger) *SupabaseAuth {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	mockRole, ok := lifecycle.ParseRole(strings.TrimSpace(cfg.MockUserRole))
	if !ok {
		mockRole = lifecycle.RoleLandlord
	}

	auth := &SupabaseAuth{
		baseURL: strings.TrimRight(cfg.SupabaseURL, "/"),
		apiKey:  cfg.PublishableKey,
		client: &http.Client{
			Timeout: timeout,
		},
		profiles: profiles,
		skipAuth: cfg.SkipAuth,
		mockUser: User{
			ID:    strings.TrimSpace(cfg.MockUserID),
			Email: strings.TrimSpace(cfg.MockUserEmail),
			Name:  strings.TrimSpace(cfg.MockUserName),
			Role:  mockRole,
		},
		log: log,
	}
	if cfg.JWTSecret != "" {
		auth.jwtSecret = []byte(cfg.JWTSecret)
	}
	return auth
}

func (a *SupabaseAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockUser.ID == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			a.serveAs(w, r, next, a.mockUser)
			return
		}

		if a.jwtSecret == nil && (a.baseURL == "" || a.apiKey == "") {
			writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		var (
			user User
			err  error
		)
		if a.jwtSecret != nil {
			user, err = a.verifyLocal(token)
		} else {
			user, err = a.verifyRemote(r.Context(), token)
		}
		if err != nil {
			a.log.Debug("auth: token rejected", "err", err)
			unauthorized(w)
			return
		}

		a.serveAs(w, r, next, user)
	})
}

func (a *SupabaseAuth) serveAs(w http.ResponseWriter, r *http.Request, next http.Handler, user User) {
	if a.profiles != nil {
		if err := a.profiles.UpsertProfile(r.Context(), user.ID, user.Email, user.Name, user.AvatarURL, string(user.Actor().Role), user.Locale); err != nil {
			a.log.InternalError("auth: upsert profile failed", err, "user_id", user.ID)
		}
	}
	ctx := WithUser(r.Context(), user)
	next.ServeHTTP(w, r.WithContext(ctx))
}

// verifyLocal checks an HS256 token signed with the project JWT secret.
func (a *SupabaseAuth) verifyLocal(token string) (User, error) {
	var claims supabaseClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return a.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return User{}, err
	}
	if claims.Subject == "" {
		return User{}, errInvalidToken
	}
	return userFromMetadata(claims.Subject, claims.Email, claims.UserMetadata, claims.AppMetadata), nil
}

func (a *SupabaseAuth) verifyRemote(ctx context.Context, token string) (User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return User{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return User{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return User{}, errInvalidToken
	}

	var payload userResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return User{}, err
	}

	userID := firstNonEmpty(payload.ID, payload.Sub, payload.User.ID, payload.User.Sub)
	if userID == "" {
		return User{}, errInvalidToken
	}
	return userFromMetadata(userID, payload.Email, payload.UserMetadata, payload.AppMetadata), nil
}

// userFromMetadata resolves the role from app_metadata, which only the
// backend can write, before user_metadata. Admin is never taken from
// user_metadata.
func userFromMetadata(id, email string, userMeta, appMeta map[string]interface{}) User {
	role := lifecycle.RoleTenant
	if parsed, ok := lifecycle.ParseRole(stringFromMap(appMeta, "role")); ok {
		role = parsed
	} else if parsed, ok := lifecycle.ParseRole(stringFromMap(userMeta, "role")); ok && parsed != lifecycle.RoleAdmin {
		role = parsed
	}

	return User{
		ID:        id,
		Email:     email,
		Name:      firstNonEmpty(stringFromMap(userMeta, "name"), stringFromMap(userMeta, "full_name")),
		AvatarURL: stringFromMap(userMeta, "avatar_url"),
		Role:      role,
		Locale:    stringFromMap(userMeta, "locale"),
	}
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithUser(ctx context.Context, user User) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, userIDKey, user.ID)
}

func UserFromContext(ctx context.Context) (User, bool) {
	value := ctx.Value(userKey)
	user, ok := value.(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(userIDKey)
	userID, ok := value.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func stringFromMap(values map[string]interface{}, key string) string {
	if values == nil {
		return ""
	}
	value, ok := values[key]
	if !ok {
		return ""
	}
	parsed, ok := value.(string)
	if !ok {
		return ""
	}
	return parsed
}
