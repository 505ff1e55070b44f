package domain

import (
	"errors"
	"fmt"
)

// ErrTaskNotFound is returned when an operation names a task id the board
// does not hold.
var ErrTaskNotFound = errors.New("task not found")

// ValidationError rejects input before any state is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Invalid builds a ValidationError for callers outside the package.
func Invalid(field, reason string) error {
	return invalid(field, reason)
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
