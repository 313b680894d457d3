package common

import (
	"errors"
	"net/http"

	"rental-app-go/internal/domain/lifecycle"
	propertydomain "rental-app-go/internal/domain/property"
	"rental-app-go/pkg/logger"
)

type transitionDetails struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// WriteServiceError maps the errors shared by every workflow service.
// Handlers check their own not-found sentinels first and fall through here.
func WriteServiceError(w http.ResponseWriter, log logger.Logger, op string, err error, args ...any) {
	var transition *lifecycle.TransitionError
	var validation *lifecycle.ValidationError

	switch {
	case errors.As(err, &transition):
		log.BusinessError(op+": invalid transition", err, args...)
		writeErrorDetails(w, http.StatusConflict, "invalid_transition", transition.Error(), transitionDetails{
			Entity: transition.Entity,
			Action: transition.Action,
			Status: transition.From,
			Reason: transition.Reason,
		})
	case errors.Is(err, lifecycle.ErrConflict):
		log.BusinessError(op+": version conflict", err, args...)
		writeError(w, http.StatusConflict, "conflict", "resource was modified concurrently, retry")
	case errors.Is(err, lifecycle.ErrForbidden):
		log.BusinessError(op+": forbidden", err, args...)
		writeError(w, http.StatusForbidden, "forbidden", "forbidden")
	case errors.As(err, &validation):
		log.BusinessError(op+": validation failed", err, args...)
		writeErrorDetails(w, http.StatusBadRequest, "invalid_request", validation.Message, map[string]string{"field": validation.Field})
	case errors.Is(err, propertydomain.ErrPropertyNotFound):
		log.BusinessError(op+": property not found", err, args...)
		writeError(w, http.StatusNotFound, "property_not_found", "property not found")
	default:
		log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

// WriteNotFound logs and writes a 404 with the given code.
func WriteNotFound(w http.ResponseWriter, log logger.Logger, op, code string, err error, args ...any) {
	log.BusinessError(op+": not found", err, args...)
	writeError(w, http.StatusNotFound, code, err.Error())
}
