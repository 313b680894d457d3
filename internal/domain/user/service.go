package user

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpsertProfile stores what the token says about the user. An unparseable
// locale is dropped rather than rejected.
func (s *Service) UpsertProfile(ctx context.Context, userID, email, name, avatarURL, role, locale string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	profile := Profile{UserID: userID, Role: strings.TrimSpace(role)}
	if profile.Role == "" {
		profile.Role = "tenant"
	}
	if email != "" {
		profile.Email = &email
	}
	if name = strings.TrimSpace(name); name != "" {
		profile.Name = &name
	}
	if avatarURL != "" {
		profile.AvatarURL = &avatarURL
	}
	if tag, ok := normalizeLocale(locale); ok {
		profile.Locale = &tag
	}

	return s.repo.UpsertProfile(ctx, &profile)
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// Locale returns the stored locale of the user, or "" when none is known.
func (s *Service) Locale(ctx context.Context, userID string) string {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil || profile.Locale == nil {
		return ""
	}
	return *profile.Locale
}

func normalizeLocale(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", false
	}
	return tag.String(), true
}
