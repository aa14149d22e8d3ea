package domain

import (
	"fmt"
	"strings"
)

// Language is a language supported by the spelling service.
type Language string

// Supported languages.
const (
	LanguageRU Language = "RU"
	LanguageEN Language = "EN"
)

// ParseLanguage converts a user supplied code into a Language. Only the
// exact upper-case codes are accepted.
func ParseLanguage(code string) (Language, error) {
	switch Language(code) {
	case LanguageRU:
		return LanguageRU, nil
	case LanguageEN:
		return LanguageEN, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, code)
	}
}

// Code returns the lowercase two-letter code used on the wire.
func (l Language) Code() string {
	return strings.ToLower(string(l))
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	return l == LanguageRU || l == LanguageEN
}
