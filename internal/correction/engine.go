package correction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/errorfreetext/errorfree/internal/domain"
	"github.com/errorfreetext/errorfree/internal/spelling"
)

// Engine corrects the text of one task at a time.
type Engine struct {
	speller      spelling.Speller
	maxChunkSize int
	logger       *slog.Logger
}

// NewEngine creates an Engine. A non-positive maxChunkSize is rejected with
// domain.ErrConfiguration.
func NewEngine(speller spelling.Speller, maxChunkSize int, logger *slog.Logger) (*Engine, error) {
	if speller == nil {
		return nil, fmt.Errorf("%w: speller cannot be nil", domain.ErrConfiguration)
	}
	if maxChunkSize <= 0 {
		return nil, fmt.Errorf("%w: max chunk size must be positive, got %d", domain.ErrConfiguration, maxChunkSize)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		speller:      speller,
		maxChunkSize: maxChunkSize,
		logger:       logger.With("component", "correction_engine"),
	}, nil
}

// Correct runs the task's original text through the speller chunk by chunk.
// The first chunk failure aborts the correction.
func (e *Engine) Correct(ctx context.Context, task *domain.Task) (domain.CorrectionResult, error) {
	options := DetermineOptions(task.OriginalText)

	chunks, err := Split(task.OriginalText, e.maxChunkSize)
	if err != nil {
		return domain.CorrectionResult{}, err
	}

	log := e.logger.With(
		"task_id", task.ID.String(),
		"language", string(task.Language),
		"chunk_count", len(chunks),
	)
	log.DebugContext(ctx, "correcting text", "options", options)

	var sb strings.Builder
	sb.Grow(len(task.OriginalText))
	for i, chunk := range chunks {
		corrected, err := e.speller.Correct(ctx, chunk, task.Language, options)
		if err != nil {
			log.WarnContext(ctx, "chunk correction failed",
				"chunk_index", i,
				"error", err)
			return domain.CorrectionResult{}, fmt.Errorf("correct chunk %d of %d: %w", i+1, len(chunks), err)
		}
		sb.WriteString(corrected)
	}

	log.DebugContext(ctx, "text corrected")

	return domain.CorrectionResult{
		CorrectedText: sb.String(),
		Options:       options,
	}, nil
}
