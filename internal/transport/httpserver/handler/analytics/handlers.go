package analytics

import (
	analyticsdomain "rental-app-go/internal/domain/analytics"
	"rental-app-go/internal/domain/lifecycle"
	"rental-app-go/pkg/logger"
)

type Handlers struct {
	Analytics  *analyticsdomain.Service
	Delegation lifecycle.Delegation
	log        logger.Logger
}

func New(analytics *analyticsdomain.Service, delegation lifecycle.Delegation, log logger.Logger) *Handlers {
	return &Handlers{
		Analytics:  analytics,
		Delegation: delegation,
		log:        log,
	}
}
