package service

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateAccount is returned when the username or email is taken.
	ErrDuplicateAccount = errors.New("user with this username or email already exists")
	// ErrInvalidCredentials is returned for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrTaskNotFound is returned when the task does not exist for this user.
	ErrTaskNotFound = errors.New("task not found")
	// ErrValidation matches every ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
