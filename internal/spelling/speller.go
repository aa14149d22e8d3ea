package spelling

import (
	"context"

	"github.com/errorfreetext/errorfree/internal/domain"
)

// Speller corrects a single chunk of text.
// Implementations own their retry policy; callers treat every returned error
// as final for the chunk.
type Speller interface {
	Correct(ctx context.Context, text string, language domain.Language, options []domain.Option) (string, error)
}

// Correction is one misspelling reported by the service.
// Pos and Len are character offsets into the submitted chunk.
type Correction struct {
	Code        int      `json:"code"`
	Word        string   `json:"word"`
	Suggestions []string `json:"s"`
	Pos         int      `json:"pos"`
	Row         int      `json:"row"`
	Col         int      `json:"col"`
	Len         int      `json:"len"`
}
