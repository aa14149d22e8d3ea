package yandex

import "github.com/errorfreetext/errorfree/internal/domain"

// Option bits understood by the checkTexts endpoint.
const (
	optionIgnoreDigits = 2
	optionIgnoreURLs   = 4
)

// optionMask sums the wire bits of opts. Repeated options count once.
func optionMask(opts []domain.Option) int {
	mask := 0
	if domain.HasOption(opts, domain.OptionIgnoreDigits) {
		mask |= optionIgnoreDigits
	}
	if domain.HasOption(opts, domain.OptionIgnoreURLs) {
		mask |= optionIgnoreURLs
	}
	return mask
}
