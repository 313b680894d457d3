package notifications

import (
	notificationdomain "rental-app-go/internal/domain/notification"
	"rental-app-go/pkg/logger"
)

type Handlers struct {
	Notifications *notificationdomain.Service
	log           logger.Logger
}

func New(notifications *notificationdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Notifications: notifications,
		log:           log,
	}
}
