package spelling

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestApplyCorrections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		text        string
		corrections []Correction
		want        string
		wantStats   ApplyStats
	}{
		{
			name: "two corrections",
			text: "Helo world! How are yuo?",
			corrections: []Correction{
				{Word: "Helo", Suggestions: []string{"Hello"}, Pos: 0, Len: 4},
				{Word: "yuo", Suggestions: []string{"you"}, Pos: 20, Len: 3},
			},
			want:      "Hello world! How are you?",
			wantStats: ApplyStats{Applied: 2},
		},
		{
			name: "out of order records",
			text: "Helo world! How are yuo?",
			corrections: []Correction{
				{Word: "yuo", Suggestions: []string{"you"}, Pos: 20, Len: 3},
				{Word: "Helo", Suggestions: []string{"Hello"}, Pos: 0, Len: 4},
			},
			want:      "Hello world! How are you?",
			wantStats: ApplyStats{Applied: 2},
		},
		{
			name:      "no records",
			text:      "Hello world",
			want:      "Hello world",
			wantStats: ApplyStats{},
		},
		{
			name: "first suggestion wins",
			text: "teh cat",
			corrections: []Correction{
				{Word: "teh", Suggestions: []string{"the", "tea"}, Pos: 0, Len: 3},
			},
			want:      "the cat",
			wantStats: ApplyStats{Applied: 1},
		},
		{
			name: "empty suggestions skipped",
			text: "teh cat",
			corrections: []Correction{
				{Word: "teh", Suggestions: nil, Pos: 0, Len: 3},
			},
			want:      "teh cat",
			wantStats: ApplyStats{Skipped: 1},
		},
		{
			name: "mismatched word skipped",
			text: "teh cat",
			corrections: []Correction{
				{Word: "cta", Suggestions: []string{"cat"}, Pos: 4, Len: 3},
				{Word: "teh", Suggestions: []string{"the"}, Pos: 0, Len: 3},
			},
			want:      "the cat",
			wantStats: ApplyStats{Applied: 1, Skipped: 1},
		},
		{
			name: "span beyond text skipped",
			text: "teh",
			corrections: []Correction{
				{Word: "teh", Suggestions: []string{"the"}, Pos: 2, Len: 3},
			},
			want:      "teh",
			wantStats: ApplyStats{Skipped: 1},
		},
		{
			name: "cyrillic offsets are characters",
			text: "Превет мир, как дила?",
			corrections: []Correction{
				{Word: "Превет", Suggestions: []string{"Привет"}, Pos: 0, Len: 6},
				{Word: "дила", Suggestions: []string{"дела"}, Pos: 16, Len: 4},
			},
			want:      "Привет мир, как дела?",
			wantStats: ApplyStats{Applied: 2},
		},
		{
			name: "replacement changing length",
			text: "a b c",
			corrections: []Correction{
				{Word: "a", Suggestions: []string{"alpha"}, Pos: 0, Len: 1},
				{Word: "c", Suggestions: []string{""}, Pos: 4, Len: 1},
			},
			want:      "alpha b ",
			wantStats: ApplyStats{Applied: 2},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, stats := ApplyCorrections(tc.text, tc.corrections, discardLogger())
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantStats, stats)
		})
	}
}

func TestApplyCorrections_DoesNotReorderInput(t *testing.T) {
	t.Parallel()

	corrections := []Correction{
		{Word: "Helo", Suggestions: []string{"Hello"}, Pos: 0, Len: 4},
		{Word: "yuo", Suggestions: []string{"you"}, Pos: 20, Len: 3},
	}
	_, _ = ApplyCorrections("Helo world! How are yuo?", corrections, nil)

	assert.Equal(t, 0, corrections[0].Pos)
	assert.Equal(t, 20, corrections[1].Pos)
}
