// Package apperror defines the application error taxonomy shared by the
// repository, service, and handler layers.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConstraint indicates a store-enforced uniqueness or integrity rule
	// rejected a write, e.g. a duplicate username.
	ErrConstraint = errors.New("constraint violation")
	// ErrStorageUnavailable indicates the persistence store could not be
	// opened, initialized, or reached within the operation deadline.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError reports invalid user input. It is recovered locally and
// rendered as a form message, never as a server failure.
type ValidationError struct {
	// Message is the user-visible description of the problem.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string { return e.Message }

// Validation constructs a ValidationError with the given message.
func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
