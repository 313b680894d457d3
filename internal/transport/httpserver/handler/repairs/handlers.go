package repairs

import (
	"rental-app-go/internal/domain/lifecycle"
	repairdomain "rental-app-go/internal/domain/repair"
	"rental-app-go/pkg/logger"
)

type Handlers struct {
	Repairs    *repairdomain.Service
	Delegation lifecycle.Delegation
	log        logger.Logger
}

func New(repairs *repairdomain.Service, delegation lifecycle.Delegation, log logger.Logger) *Handlers {
	return &Handlers{
		Repairs:    repairs,
		Delegation: delegation,
		log:        log,
	}
}
