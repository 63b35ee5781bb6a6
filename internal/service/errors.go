package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the services in this package. The API layer maps
// them to status codes with errors.Is.
var (
	// ErrInvalidRequest wraps request validation and sanitising failures.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNoChanges is returned by UpdateCard when the request changes nothing.
	ErrNoChanges = errors.New("no fields to update")
)

// CardServiceError is a custom error type for card service errors.
type CardServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for CardServiceError.
func (e *CardServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("card service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("card service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CardServiceError) Unwrap() error {
	return e.Err
}

// NewCardServiceError creates a new CardServiceError.
func NewCardServiceError(operation, message string, err error) *CardServiceError {
	return &CardServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
