package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error taxonomy. Every error returned by the services wraps one of these.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("resource not found")
	ErrForbidden  = errors.New("forbidden")
	ErrTransient  = errors.New("service temporarily unavailable")
)

// Auth errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrForbidden)
	ErrUserInactive       = fmt.Errorf("%w: user account is inactive", ErrForbidden)
	ErrSessionRevoked     = fmt.Errorf("%w: session revoked", ErrUnauthorized)
	ErrInvalidPassword    = fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	ErrWrongPassword      = fmt.Errorf("%w: current password is incorrect", ErrForbidden)
)

// User errors
var (
	ErrUserNotFound         = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrUserAlreadyExists    = fmt.Errorf("%w: username already exists", ErrValidation)
	ErrProtectedAccount     = fmt.Errorf("%w: the seed admin account cannot be changed this way", ErrForbidden)
	ErrCannotDeleteSelf     = fmt.Errorf("%w: cannot delete your own account", ErrForbidden)
	ErrCannotChangeOwnRole  = fmt.Errorf("%w: cannot change your own role", ErrForbidden)
	ErrCannotDeactivateSelf = fmt.Errorf("%w: cannot deactivate your own account", ErrForbidden)
	ErrInvalidRole          = fmt.Errorf("%w: invalid role", ErrValidation)
)

// Registration errors
var (
	ErrRegistrationNotFound = fmt.Errorf("%w: registration not found", ErrNotFound)
	ErrInvalidStatus        = fmt.Errorf("%w: invalid registration status", ErrValidation)
)

// ValidationError collects per-field messages so callers can render them
// next to the offending input.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a message for field. The first message per field wins.
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = message
}

// Empty reports whether no field failed.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// OrNil returns e when any field failed, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) hold for a ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
