package correction

import (
	"fmt"
	"unicode"

	"github.com/errorfreetext/errorfree/internal/domain"
)

// DefaultMaxChunkSize is the largest chunk, in characters, sent to the speller.
const DefaultMaxChunkSize = 10000

// Split cuts text into chunks of at most maxChunkSize characters, preferring
// to cut at the last space inside each window. Whitespace following a cut is
// dropped, so joining the chunks does not always reproduce text exactly.
func Split(text string, maxChunkSize int) ([]string, error) {
	if maxChunkSize <= 0 {
		return nil, fmt.Errorf("%w: max chunk size must be positive, got %d", domain.ErrConfiguration, maxChunkSize)
	}

	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/maxChunkSize+1)

	for i := 0; i < len(runes); {
		end := min(len(runes), i+maxChunkSize)
		if end < len(runes) {
			if lastSpace := lastSpaceBefore(runes, end); lastSpace > i {
				end = lastSpace
			}
		}
		if end == i {
			end = i + 1
		}

		chunks = append(chunks, string(runes[i:end]))

		i = end
		for i < len(runes) && isBreakingSpace(runes[i]) {
			i++
		}
	}

	return chunks, nil
}

// isBreakingSpace reports whether r is skipped after a cut. No-break spaces
// and NEL belong to the following chunk.
func isBreakingSpace(r rune) bool {
	switch r {
	case '\u00a0', '\u0085', '\u2007', '\u202f':
		return false
	case '\u001c', '\u001d', '\u001e', '\u001f':
		return true
	}
	return unicode.IsSpace(r)
}

// lastSpaceBefore returns the index of the last ' ' at or before end-1, or -1.
func lastSpaceBefore(runes []rune, end int) int {
	for j := end - 1; j >= 0; j-- {
		if runes[j] == ' ' {
			return j
		}
	}
	return -1
}
