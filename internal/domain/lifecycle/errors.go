package lifecycle

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrConflict          = errors.New("concurrent update conflict")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("validation failed")
)

// TransitionError reports a rejected state change together with the state the
// entity was in, so callers can explain the rejection.
type TransitionError struct {
	Entity string
	ID     string
	Action string
	From   string
	Reason string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("%s %s: cannot %s in status %q", e.Entity, e.ID, e.Action, e.From)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func InvalidTransition(entity, id, action, from string) error {
	return &TransitionError{Entity: entity, ID: id, Action: action, From: from}
}

func InvalidTransitionReason(entity, id, action, from, reason string) error {
	return &TransitionError{Entity: entity, ID: id, Action: action, From: from, Reason: reason}
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
