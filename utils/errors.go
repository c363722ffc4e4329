package utils

import (
	"fmt"
)

// ValidationError reports a bad request value (amount, quantity, status).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing customer, order, payment or medicine.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// AuthorizationError reports a caller acting outside its role.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// DuplicateKeyError reports a unique-constraint violation, translated to
// a "<field> already exists" message for the caller.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string { return e.Field + " already exists" }
