package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinTextLength is the minimum number of characters accepted for a task text.
const MinTextLength = 3

// Validation messages returned to API clients.
const (
	msgTextEmpty        = "Text cannot be empty"
	msgTextTooShort     = "Text must contain at least 3 characters"
	msgTextSpecialOnly  = "Text cannot contain only special characters and digits"
	msgTextNoLetter     = "Text must contain at least one letter"
	msgLanguageRequired = "Language is required"
	msgLanguageInvalid  = "Language must be either RU or EN"
)

// ValidateText checks the content rules for a correction request.
// It returns a *ValidationError describing the first violated rule.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return NewValidationError("text", msgTextEmpty, nil)
	}
	if utf8.RuneCountInString(text) < MinTextLength {
		return NewValidationError("text", msgTextTooShort, nil)
	}

	hasLetter := false
	specialOnly := true
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
		if !isSpecial(r) {
			specialOnly = false
		}
	}
	if hasLetter {
		return nil
	}
	if specialOnly {
		return NewValidationError("text", msgTextSpecialOnly, nil)
	}
	return NewValidationError("text", msgTextNoLetter, nil)
}

// ValidateLanguage parses a language code and reports a *ValidationError
// when it is missing or unsupported.
func ValidateLanguage(code string) (Language, error) {
	if strings.TrimSpace(code) == "" {
		return "", NewValidationError("language", msgLanguageRequired, nil)
	}
	lang, err := ParseLanguage(code)
	if err != nil {
		return "", NewValidationError("language", msgLanguageInvalid, err)
	}
	return lang, nil
}

// isSpecial matches whitespace, digits, ASCII punctuation and symbols.
func isSpecial(r rune) bool {
	return unicode.IsSpace(r) ||
		unicode.IsDigit(r) ||
		(r < utf8.RuneSelf && unicode.IsPunct(r)) ||
		(r < utf8.RuneSelf && unicode.IsSymbol(r)) ||
		unicode.Is(unicode.So, r)
}
