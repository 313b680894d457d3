package app

import (
	"context"
	"errors"
	"time"

	propertydomain "rental-app-go/internal/domain/property"
	userdomain "rental-app-go/internal/domain/user"
	"rental-app-go/internal/repository/inmemory"
	"rental-app-go/pkg/logger"
)

const labelTTL = 5 * time.Minute

// directory resolves notification template labels through short-lived
// cache entries. A missing record yields an empty label.
type directory struct {
	properties *propertydomain.Service
	users      *userdomain.Service
	labels     *inmemory.LabelCache
	log        logger.Logger
}

func newDirectory(properties *propertydomain.Service, users *userdomain.Service, labels *inmemory.LabelCache, log logger.Logger) *directory {
	return &directory{properties: properties, users: users, labels: labels, log: log}
}

func (d *directory) PropertyTitle(ctx context.Context, propertyID string) string {
	if propertyID == "" {
		return ""
	}
	key := "property:" + propertyID
	if title, ok := d.labels.Get(key); ok {
		return title
	}

	property, err := d.properties.GetByID(ctx, propertyID)
	if err != nil {
		if !errors.Is(err, propertydomain.ErrPropertyNotFound) {
			d.log.Warn("directory: property lookup failed", "property_id", propertyID, "err", err)
		}
		return ""
	}
	d.labels.Set(key, property.Title, labelTTL)
	return property.Title
}

func (d *directory) DisplayName(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	key := "user:" + userID
	if name, ok := d.labels.Get(key); ok {
		return name
	}

	profile, err := d.users.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, userdomain.ErrProfileNotFound) {
			d.log.Warn("directory: profile lookup failed", "user_id", userID, "err", err)
		}
		return ""
	}
	name := profile.DisplayName()
	d.labels.Set(key, name, labelTTL)
	return name
}
