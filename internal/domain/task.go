package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the processing state of a task.
type TaskStatus string

// Possible task status values.
const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusFailed     TaskStatus = "FAILED"
)

// ParseTaskStatus converts a persisted status string into a TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch status := TaskStatus(s); status {
	case TaskStatusPending, TaskStatusProcessing, TaskStatusCompleted, TaskStatusFailed:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Terminal reports whether no further transition is expected from s.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// TaskState is the status-specific part of a task. Each variant carries only
// the fields that are valid for its status.
type TaskState interface {
	Status() TaskStatus
	isTaskState()
}

// Pending is the state of a task waiting to be claimed.
type Pending struct{}

// Processing is the state of a claimed task whose correction is in flight.
type Processing struct{}

// Completed is the terminal state of a successfully corrected task.
type Completed struct {
	CorrectedText string
	Options       []Option
}

// Failed is the terminal state of a task whose correction failed or timed out.
type Failed struct {
	ErrorMessage string
}

func (Pending) Status() TaskStatus    { return TaskStatusPending }
func (Processing) Status() TaskStatus { return TaskStatusProcessing }
func (Completed) Status() TaskStatus  { return TaskStatusCompleted }
func (Failed) Status() TaskStatus     { return TaskStatusFailed }

func (Pending) isTaskState()    {}
func (Processing) isTaskState() {}
func (Completed) isTaskState()  {}
func (Failed) isTaskState()     {}

// Task is one text correction request and its current outcome.
type Task struct {
	ID           uuid.UUID
	OriginalText string
	Language     Language
	State        TaskState
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewTask creates a pending task. Content validation is the caller's job,
// see ValidateText.
func NewTask(text string, language Language, now time.Time) (*Task, error) {
	if !language.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLanguage, language)
	}
	now = now.UTC()
	return &Task{
		ID:           uuid.New(),
		OriginalText: text,
		Language:     language,
		State:        Pending{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// RestoreState rebuilds a TaskState from its persisted columns.
// Nullable columns are passed as pointers.
func RestoreState(status TaskStatus, correctedText *string, options []Option, errorMessage *string) (TaskState, error) {
	switch status {
	case TaskStatusPending:
		return Pending{}, nil
	case TaskStatusProcessing:
		return Processing{}, nil
	case TaskStatusCompleted:
		if correctedText == nil {
			return nil, fmt.Errorf("%w: completed task without corrected text", ErrInvalidStatus)
		}
		return Completed{CorrectedText: *correctedText, Options: options}, nil
	case TaskStatusFailed:
		msg := UnknownErrorMessage
		if errorMessage != nil {
			msg = *errorMessage
		}
		return Failed{ErrorMessage: msg}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
}

// Status returns the current task status.
func (t *Task) Status() TaskStatus {
	if t.State == nil {
		return TaskStatusPending
	}
	return t.State.Status()
}

// CorrectedText returns the corrected text, present only when completed.
func (t *Task) CorrectedText() (string, bool) {
	c, ok := t.State.(Completed)
	return c.CorrectedText, ok
}

// ErrorMessage returns the failure message, present only when failed.
func (t *Task) ErrorMessage() (string, bool) {
	f, ok := t.State.(Failed)
	return f.ErrorMessage, ok
}

// Options returns the correction options applied to a completed task.
func (t *Task) Options() []Option {
	if c, ok := t.State.(Completed); ok {
		return c.Options
	}
	return nil
}

// MarkProcessing moves the task to PROCESSING.
func (t *Task) MarkProcessing(now time.Time) {
	t.transition(Processing{}, now)
}

// Complete moves the task to COMPLETED with the given result.
func (t *Task) Complete(result CorrectionResult, now time.Time) {
	opts := make([]Option, len(result.Options))
	copy(opts, result.Options)
	t.transition(Completed{CorrectedText: result.CorrectedText, Options: opts}, now)
}

// Fail moves the task to FAILED. An empty message is replaced by UnknownErrorMessage.
func (t *Task) Fail(message string, now time.Time) {
	if message == "" {
		message = UnknownErrorMessage
	}
	t.transition(Failed{ErrorMessage: message}, now)
}

// transition replaces the state and refreshes UpdatedAt, never letting it
// fall before CreatedAt.
func (t *Task) transition(state TaskState, now time.Time) {
	now = now.UTC()
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.State = state
	t.UpdatedAt = now
}
