// Package yandex implements spelling.Speller against the Yandex Speller
// checkTexts endpoint.
//
// Requests are form-encoded POSTs carrying the text, the lowercase language
// code and the option bitmask. Transient failures (network errors, timeouts
// and non-2xx responses) are retried with exponential backoff up to the
// configured number of attempts. A response body that cannot be decoded is
// reported immediately as spelling.ErrInvalidResponse.
package yandex
