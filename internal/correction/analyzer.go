package correction

import (
	"regexp"

	"github.com/errorfreetext/errorfree/internal/domain"
)

var (
	digitPattern = regexp.MustCompile(`\d`)
	urlPattern   = regexp.MustCompile(`(?i)https?://(www\.)?[-a-z0-9@:%._+~#=]{1,256}\.[a-z0-9()]{1,6}\b([-a-z0-9()@:%_+.~#?&/=]*)`)
)

// DetermineOptions returns the speller options implied by text, in a fixed
// order: IGNORE_DIGITS then IGNORE_URLS.
func DetermineOptions(text string) []domain.Option {
	opts := make([]domain.Option, 0, 2)
	if digitPattern.MatchString(text) {
		opts = append(opts, domain.OptionIgnoreDigits)
	}
	if urlPattern.MatchString(text) {
		opts = append(opts, domain.OptionIgnoreURLs)
	}
	return opts
}
