package spelling

import "errors"

// Common errors returned by Speller implementations.
var (
	// ErrTransient is returned for network failures, timeouts and non-2xx
	// responses from the spelling service.
	ErrTransient = errors.New("spelling service unavailable")

	// ErrInvalidResponse is returned when the service answers with a body that
	// cannot be decoded.
	ErrInvalidResponse = errors.New("invalid response from spelling service")
)
