package correction

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/errorfreetext/errorfree/internal/domain"
	"github.com/errorfreetext/errorfree/internal/spelling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSpeller struct {
	mock.Mock
}

func (m *MockSpeller) Correct(
	ctx context.Context,
	text string,
	language domain.Language,
	options []domain.Option,
) (string, error) {
	args := m.Called(ctx, text, language, options)
	if fn, ok := args.Get(0).(func(context.Context, string, domain.Language, []domain.Option) string); ok {
		return fn(ctx, text, language, options), args.Error(1)
	}
	return args.String(0), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTask(t *testing.T, text string, lang domain.Language) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(text, lang, time.Now())
	require.NoError(t, err)
	return task
}

func TestNewEngine_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(&MockSpeller{}, 0, testLogger())
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = NewEngine(nil, 10, testLogger())
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	engine, err := NewEngine(&MockSpeller{}, 10, nil)
	require.NoError(t, err)
	assert.NotNil(t, engine)
}

func TestEngine_Correct_SingleChunk(t *testing.T) {
	t.Parallel()

	speller := &MockSpeller{}
	speller.On("Correct", mock.Anything, "Helo world! How are yuo?", domain.LanguageEN, []domain.Option{}).
		Return("Hello world! How are you?", nil).Once()

	engine, err := NewEngine(speller, DefaultMaxChunkSize, testLogger())
	require.NoError(t, err)

	result, err := engine.Correct(context.Background(), newTestTask(t, "Helo world! How are yuo?", domain.LanguageEN))
	require.NoError(t, err)
	assert.Equal(t, "Hello world! How are you?", result.CorrectedText)
	assert.Empty(t, result.Options)
	speller.AssertExpectations(t)
}

func TestEngine_Correct_LongTextIsChunked(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("a", 15000)

	speller := &MockSpeller{}
	speller.On("Correct", mock.Anything, mock.AnythingOfType("string"), domain.LanguageEN, []domain.Option{}).
		Return(func(_ context.Context, chunk string, _ domain.Language, _ []domain.Option) string {
			return chunk
		}, nil)

	engine, err := NewEngine(speller, 10000, testLogger())
	require.NoError(t, err)

	result, err := engine.Correct(context.Background(), newTestTask(t, text, domain.LanguageEN))
	require.NoError(t, err)
	assert.Len(t, result.CorrectedText, 15000)
	assert.Empty(t, result.Options)
	assert.GreaterOrEqual(t, len(speller.Calls), 2)
}

func TestEngine_Correct_PassesOptions(t *testing.T) {
	t.Parallel()

	text := "Visit https://example.com at 5pm"
	want := []domain.Option{domain.OptionIgnoreDigits, domain.OptionIgnoreURLs}

	speller := &MockSpeller{}
	speller.On("Correct", mock.Anything, text, domain.LanguageRU, want).Return(text, nil).Once()

	engine, err := NewEngine(speller, DefaultMaxChunkSize, testLogger())
	require.NoError(t, err)

	result, err := engine.Correct(context.Background(), newTestTask(t, text, domain.LanguageRU))
	require.NoError(t, err)
	assert.Equal(t, want, result.Options)
	speller.AssertExpectations(t)
}

func TestEngine_Correct_AbortsOnFirstFailure(t *testing.T) {
	t.Parallel()

	speller := &MockSpeller{}
	speller.On("Correct", mock.Anything, "first", domain.LanguageEN, mock.Anything).Return("first", nil).Once()
	speller.On("Correct", mock.Anything, "second", domain.LanguageEN, mock.Anything).
		Return("", spelling.ErrTransient).Once()

	engine, err := NewEngine(speller, 6, testLogger())
	require.NoError(t, err)

	_, err = engine.Correct(context.Background(), newTestTask(t, "first second third", domain.LanguageEN))
	require.Error(t, err)
	assert.True(t, errors.Is(err, spelling.ErrTransient))
	assert.Contains(t, err.Error(), "chunk 2 of 3")
	speller.AssertNotCalled(t, "Correct", mock.Anything, "third", mock.Anything, mock.Anything)
	speller.AssertExpectations(t)
}
