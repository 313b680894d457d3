package team

import (
	teamdomain "rental-app-go/internal/domain/team"
	verificationdomain "rental-app-go/internal/domain/verification"
	"rental-app-go/pkg/logger"
)

// Handlers serves landlord team management and user verification, the two
// account-level workflows.
type Handlers struct {
	Team          *teamdomain.Service
	Verifications *verificationdomain.Service
	log           logger.Logger
}

func New(team *teamdomain.Service, verifications *verificationdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Team:          team,
		Verifications: verifications,
		log:           log,
	}
}
