package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when user input fails validation.
	// It is usually wrapped by a *ValidationError carrying the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidLanguage is returned when a language code is not supported.
	ErrInvalidLanguage = errors.New("invalid language")

	// ErrInvalidStatus is returned when a persisted status string is unknown.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrConfiguration is returned for invalid settings that make a component
	// unusable, such as a non-positive chunk size. It is fatal and never retried.
	ErrConfiguration = errors.New("invalid configuration")
)

// UnknownErrorMessage is recorded on a failed task when the failure carries no message.
const UnknownErrorMessage = "Unknown error"

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for the given field.
// If err is nil, ErrValidation is used as the wrapped error.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface. Only the message is returned because
// it is safe to show to API clients.
func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports ErrValidation for every ValidationError so callers only need one check.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ErrorMessageOf extracts the message recorded on a failed task.
func ErrorMessageOf(err error) string {
	if err == nil {
		return UnknownErrorMessage
	}
	msg := err.Error()
	if msg == "" {
		return UnknownErrorMessage
	}
	return msg
}
