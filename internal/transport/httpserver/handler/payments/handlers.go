package payments

import (
	"time"

	billingdomain "rental-app-go/internal/domain/billing"
	"rental-app-go/internal/domain/lifecycle"
	"rental-app-go/pkg/logger"
)

type Handlers struct {
	Billing    *billingdomain.Service
	Delegation lifecycle.Delegation
	log        logger.Logger
	now        func() time.Time
}

func New(billing *billingdomain.Service, delegation lifecycle.Delegation, log logger.Logger) *Handlers {
	return &Handlers{
		Billing:    billing,
		Delegation: delegation,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}
