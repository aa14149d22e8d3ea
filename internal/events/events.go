package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/errorfreetext/errorfree/internal/domain"
	"github.com/google/uuid"
)

// EventType names a lifecycle transition.
type EventType string

// Lifecycle event types, one per task transition.
const (
	TaskCreated    EventType = "task.created"
	TaskProcessing EventType = "task.processing"
	TaskCompleted  EventType = "task.completed"
	TaskFailed     EventType = "task.failed"
)

// TaskEvent describes one state transition of one task.
type TaskEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	Type     EventType         `json:"type"`
	TaskID   uuid.UUID         `json:"task_id"`
	Status   domain.TaskStatus `json:"status"`
	Language domain.Language   `json:"language"`

	// Options holds the applied correction options of a completed task
	Options []domain.Option `json:"options,omitempty"`

	// ErrorMessage is set for failed tasks
	ErrorMessage string `json:"error_message,omitempty"`

	// Age is the time between task creation and this transition
	Age time.Duration `json:"age"`

	OccurredAt time.Time `json:"occurred_at"`
}

// NewTaskEvent builds the event for the transition that left task in its
// current state.
func NewTaskEvent(task *domain.Task) *TaskEvent {
	status := task.Status()
	event := &TaskEvent{
		ID:         uuid.New(),
		Type:       typeForStatus(status),
		TaskID:     task.ID,
		Status:     status,
		Language:   task.Language,
		Age:        task.UpdatedAt.Sub(task.CreatedAt),
		OccurredAt: task.UpdatedAt,
	}
	if msg, ok := task.ErrorMessage(); ok {
		event.ErrorMessage = msg
	}
	event.Options = task.Options()
	return event
}

// Marshal encodes the event as JSON.
func (e *TaskEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func typeForStatus(status domain.TaskStatus) EventType {
	switch status {
	case domain.TaskStatusProcessing:
		return TaskProcessing
	case domain.TaskStatusCompleted:
		return TaskCompleted
	case domain.TaskStatusFailed:
		return TaskFailed
	default:
		return TaskCreated
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns the first handler error, if any.
	EmitEvent(ctx context.Context, event *TaskEvent) error
}

// HandlerFunc adapts an ordinary function to EventHandler.
type HandlerFunc func(ctx context.Context, event *TaskEvent) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *TaskEvent) error {
	return f(ctx, event)
}
