package properties

import (
	"rental-app-go/internal/domain/lifecycle"
	propertydomain "rental-app-go/internal/domain/property"
	"rental-app-go/pkg/logger"
)

type Handlers struct {
	Properties *propertydomain.Service
	Delegation lifecycle.Delegation
	log        logger.Logger
}

func New(properties *propertydomain.Service, delegation lifecycle.Delegation, log logger.Logger) *Handlers {
	return &Handlers{
		Properties: properties,
		Delegation: delegation,
		log:        log,
	}
}
