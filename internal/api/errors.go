package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/errorfreetext/errorfree/internal/api/shared"
	"github.com/errorfreetext/errorfree/internal/domain"
	"github.com/errorfreetext/errorfree/internal/store"
	"github.com/go-playground/validator/v10"
)

// Error codes carried in ErrorResponse.ErrorCode.
const (
	ErrorCodeValidation   = 40001
	ErrorCodeTaskNotFound = 40401
	ErrorCodeInternal     = 50000
)

const (
	msgInternal      = "An unexpected error occurred"
	msgInvalidFormat = "Invalid request format"
	msgValidation    = "Validation error"
)

// requiredMessages are the client messages for missing request fields.
var requiredMessages = map[string]string{
	"Text":     "Text cannot be empty",
	"Language": "Language is required",
}

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing their types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest
	case store.IsNotFoundError(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// MapErrorToCode returns the numeric error code for err.
func MapErrorToCode(err error) int {
	switch MapErrorToStatusCode(err) {
	case http.StatusBadRequest:
		return ErrorCodeValidation
	case http.StatusNotFound:
		return ErrorCodeTaskNotFound
	default:
		return ErrorCodeInternal
	}
}

// GetSafeErrorMessage returns a message that is safe to show to clients.
// Validation messages are written for clients; everything else is generic.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgInternal
	}

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return SanitizeValidationError(fieldErrs)
	}

	switch {
	case store.IsNotFoundError(err):
		return "Resource not found"
	case errors.Is(err, store.ErrInvalidEntity):
		return msgValidation
	default:
		return msgInternal
	}
}

// SanitizeValidationError turns struct tag violations into a client message
// naming the first offending field.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return msgValidation
	}
	fe := errs[0]
	if fe.Tag() == "required" {
		if msg, ok := requiredMessages[fe.Field()]; ok {
			return msg
		}
	}
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error response for err. A non-empty message
// replaces the default client message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption
	if status == http.StatusNotFound {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, MapErrorToCode(err), message, err, opts...)
}
