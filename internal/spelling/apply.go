package spelling

import (
	"log/slog"
	"sort"
)

// ApplyStats counts the outcome of ApplyCorrections.
type ApplyStats struct {
	Applied int
	Skipped int
}

// ApplyCorrections replaces every reported misspelling in text with its best
// suggestion. Records are applied from the highest offset down so earlier
// offsets stay valid. A record whose span no longer holds the reported word,
// or that has no suggestion, is skipped with a warning.
func ApplyCorrections(text string, corrections []Correction, logger *slog.Logger) (string, ApplyStats) {
	var stats ApplyStats
	if len(corrections) == 0 {
		return text, stats
	}
	if logger == nil {
		logger = slog.Default()
	}

	sorted := make([]Correction, len(corrections))
	copy(sorted, corrections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pos > sorted[j].Pos
	})

	result := []rune(text)
	for _, c := range sorted {
		if len(c.Suggestions) == 0 {
			stats.Skipped++
			continue
		}
		if c.Pos < 0 || c.Len < 0 || c.Pos+c.Len > len(result) {
			logger.Warn("correction span out of range",
				"position", c.Pos,
				"length", c.Len,
				"text_length", len(result))
			stats.Skipped++
			continue
		}

		actual := string(result[c.Pos : c.Pos+c.Len])
		if actual != c.Word {
			logger.Warn("word mismatch at correction position",
				"position", c.Pos,
				"expected", c.Word,
				"found", actual)
			stats.Skipped++
			continue
		}

		replacement := []rune(c.Suggestions[0])
		next := make([]rune, 0, len(result)-c.Len+len(replacement))
		next = append(next, result[:c.Pos]...)
		next = append(next, replacement...)
		next = append(next, result[c.Pos+c.Len:]...)
		result = next

		logger.Debug("applied correction",
			"position", c.Pos,
			"word", c.Word,
			"replacement", c.Suggestions[0])
		stats.Applied++
	}

	return string(result), stats
}
