package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	task, err := NewTask("Helo world", LanguageEN, now)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, "Helo world", task.OriginalText)
	assert.Equal(t, LanguageEN, task.Language)
	assert.Equal(t, TaskStatusPending, task.Status())
	assert.Equal(t, now, task.CreatedAt)
	assert.Equal(t, now, task.UpdatedAt)

	_, hasText := task.CorrectedText()
	_, hasErr := task.ErrorMessage()
	assert.False(t, hasText)
	assert.False(t, hasErr)

	_, err = NewTask("text", Language("DE"), now)
	assert.ErrorIs(t, err, ErrInvalidLanguage)
}

func TestTaskTransitions(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("pending to completed", func(t *testing.T) {
		t.Parallel()
		task, err := NewTask("Helo", LanguageEN, created)
		require.NoError(t, err)

		task.MarkProcessing(created.Add(time.Minute))
		assert.Equal(t, TaskStatusProcessing, task.Status())
		assert.Equal(t, created.Add(time.Minute), task.UpdatedAt)

		task.Complete(CorrectionResult{
			CorrectedText: "Hello",
			Options:       []Option{OptionIgnoreDigits},
		}, created.Add(2*time.Minute))

		text, ok := task.CorrectedText()
		assert.True(t, ok)
		assert.Equal(t, "Hello", text)
		assert.Equal(t, []Option{OptionIgnoreDigits}, task.Options())
		_, hasErr := task.ErrorMessage()
		assert.False(t, hasErr, "completed task must not carry an error message")
		assert.Equal(t, created.Add(2*time.Minute), task.UpdatedAt)
	})

	t.Run("processing to failed", func(t *testing.T) {
		t.Parallel()
		task, err := NewTask("Helo", LanguageRU, created)
		require.NoError(t, err)

		task.MarkProcessing(created)
		task.Fail("speller unavailable", created.Add(time.Second))

		msg, ok := task.ErrorMessage()
		assert.True(t, ok)
		assert.Equal(t, "speller unavailable", msg)
		_, hasText := task.CorrectedText()
		assert.False(t, hasText, "failed task must not carry corrected text")
		assert.Nil(t, task.Options())
	})

	t.Run("empty failure message falls back", func(t *testing.T) {
		t.Parallel()
		task, err := NewTask("Helo", LanguageEN, created)
		require.NoError(t, err)

		task.Fail("", created)
		msg, _ := task.ErrorMessage()
		assert.Equal(t, UnknownErrorMessage, msg)
	})

	t.Run("fail twice keeps latest message", func(t *testing.T) {
		t.Parallel()
		task, err := NewTask("Helo", LanguageEN, created)
		require.NoError(t, err)

		task.Fail("first", created.Add(time.Second))
		task.Fail("second", created.Add(2*time.Second))

		assert.Equal(t, TaskStatusFailed, task.Status())
		msg, _ := task.ErrorMessage()
		assert.Equal(t, "second", msg)
	})

	t.Run("updated at never precedes created at", func(t *testing.T) {
		t.Parallel()
		task, err := NewTask("Helo", LanguageEN, created)
		require.NoError(t, err)

		task.MarkProcessing(created.Add(-time.Hour))
		assert.Equal(t, created, task.UpdatedAt)
	})

	t.Run("complete copies options", func(t *testing.T) {
		t.Parallel()
		task, err := NewTask("Helo", LanguageEN, created)
		require.NoError(t, err)

		opts := []Option{OptionIgnoreURLs}
		task.Complete(CorrectionResult{CorrectedText: "Hello", Options: opts}, created)
		opts[0] = OptionIgnoreDigits
		assert.Equal(t, []Option{OptionIgnoreURLs}, task.Options())
	})
}

func TestRestoreState(t *testing.T) {
	t.Parallel()

	text := "Hello"
	msg := "boom"

	tests := []struct {
		name      string
		status    TaskStatus
		corrected *string
		errMsg    *string
		want      TaskState
		wantErr   bool
	}{
		{name: "pending", status: TaskStatusPending, want: Pending{}},
		{name: "processing", status: TaskStatusProcessing, want: Processing{}},
		{name: "completed", status: TaskStatusCompleted, corrected: &text, want: Completed{CorrectedText: text}},
		{name: "completed without text", status: TaskStatusCompleted, wantErr: true},
		{name: "failed", status: TaskStatusFailed, errMsg: &msg, want: Failed{ErrorMessage: msg}},
		{name: "failed without message", status: TaskStatusFailed, want: Failed{ErrorMessage: UnknownErrorMessage}},
		{name: "unknown", status: TaskStatus("DONE"), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			state, err := RestoreState(tc.status, tc.corrected, nil, tc.errMsg)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, state)
		})
	}
}

func TestParseTaskStatus(t *testing.T) {
	t.Parallel()

	status, err := ParseTaskStatus("PROCESSING")
	require.NoError(t, err)
	assert.Equal(t, TaskStatusProcessing, status)
	assert.False(t, status.Terminal())
	assert.True(t, TaskStatusFailed.Terminal())
	assert.True(t, TaskStatusCompleted.Terminal())

	_, err = ParseTaskStatus("processing")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseLanguage(t *testing.T) {
	t.Parallel()

	lang, err := ParseLanguage("EN")
	require.NoError(t, err)
	assert.Equal(t, LanguageEN, lang)
	assert.Equal(t, "en", lang.Code())

	lang, err = ParseLanguage("RU")
	require.NoError(t, err)
	assert.Equal(t, LanguageRU, lang)
	assert.Equal(t, "ru", lang.Code())

	for _, code := range []string{"FR", "en", "Ru", " RU ", "RUS"} {
		_, err = ParseLanguage(code)
		assert.ErrorIs(t, err, ErrInvalidLanguage, code)
	}
}

func TestHasOption(t *testing.T) {
	t.Parallel()

	opts := []Option{OptionIgnoreURLs}
	assert.True(t, HasOption(opts, OptionIgnoreURLs))
	assert.False(t, HasOption(opts, OptionIgnoreDigits))
	assert.False(t, HasOption(nil, OptionIgnoreURLs))
}
