package domain

// Option toggles the matching behavior of the spelling service.
type Option string

// Options applied by the text analyzer.
const (
	OptionIgnoreDigits Option = "IGNORE_DIGITS"
	OptionIgnoreURLs   Option = "IGNORE_URLS"
)

// CorrectionResult is the outcome of correcting one task's text.
type CorrectionResult struct {
	CorrectedText string
	Options       []Option
}

// HasOption reports whether opts contains o.
func HasOption(opts []Option, o Option) bool {
	for _, v := range opts {
		if v == o {
			return true
		}
	}
	return false
}
