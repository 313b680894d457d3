package contracts

import (
	"time"

	contractdomain "rental-app-go/internal/domain/contract"
	"rental-app-go/internal/domain/lifecycle"
	"rental-app-go/pkg/logger"
)

type Handlers struct {
	Contracts  *contractdomain.Service
	Delegation lifecycle.Delegation
	log        logger.Logger
	now        func() time.Time
}

func New(contracts *contractdomain.Service, delegation lifecycle.Delegation, log logger.Logger) *Handlers {
	return &Handlers{
		Contracts:  contracts,
		Delegation: delegation,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}
