package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared by services, repositories and the HTTP layer.
// Callers match them with errors.Is.
var (
	ErrValidation             = errors.New("validation failed")
	ErrNotFound               = errors.New("not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrOutOfInventory         = errors.New("no tickets available")
	ErrConflict               = errors.New("conflict")
	ErrForbidden              = errors.New("forbidden")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrDuplicateEmail         = errors.New("email already in use")

	// ErrDuplicateTicketCode is returned by a TicketRepository when the code is
	// already taken. The booking service retries with a fresh code; it never
	// reaches API callers.
	ErrDuplicateTicketCode = errors.New("ticket code already issued")
)

// ValidationError carries the individual problems found in a request.
// It unwraps to ErrValidation.
type ValidationError struct {
	Problems []string
}

// NewValidationError returns a *ValidationError for the given problems.
func NewValidationError(problems ...string) error {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
