package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenMalformed     = errors.New("token malformed")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrHRRequestClosed    = errors.New("hr request is closed")
)

var (
	ErrEmailTaken         = fmt.Errorf("email already taken: %w", ErrConflict)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrDepartmentNotFound = fmt.Errorf("department %w", ErrNotFound)
	ErrHRRequestNotFound  = fmt.Errorf("hr request %w", ErrNotFound)
)

// ValidationError reports malformed input on a single field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// AccessDeniedError is returned when the access policy denies an action.
type AccessDeniedError struct {
	Action Action
	Reason string
}

func (e *AccessDeniedError) Error() string { return e.Reason }

func (e *AccessDeniedError) Is(target error) bool { return target == ErrForbidden }
