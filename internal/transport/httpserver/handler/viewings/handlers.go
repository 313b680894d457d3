package viewings

import (
	"rental-app-go/internal/domain/lifecycle"
	viewingdomain "rental-app-go/internal/domain/viewing"
	"rental-app-go/pkg/logger"
)

type Handlers struct {
	Viewings   *viewingdomain.Service
	Delegation lifecycle.Delegation
	log        logger.Logger
}

func New(viewings *viewingdomain.Service, delegation lifecycle.Delegation, log logger.Logger) *Handlers {
	return &Handlers{
		Viewings:   viewings,
		Delegation: delegation,
		log:        log,
	}
}
