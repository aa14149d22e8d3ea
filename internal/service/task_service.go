package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/errorfreetext/errorfree/internal/domain"
	"github.com/errorfreetext/errorfree/internal/events"
	"github.com/errorfreetext/errorfree/internal/platform/logger"
	"github.com/errorfreetext/errorfree/internal/store"
	"github.com/google/uuid"
)

// TaskService owns every state transition of a correction task.
type TaskService interface {
	// CreateTask validates the request and persists a new PENDING task.
	// Content violations are returned as *domain.ValidationError.
	CreateTask(ctx context.Context, text, language string) (*domain.Task, error)

	// GetTask returns the task with the given ID or ErrTaskNotFound.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ClaimPending returns up to limit PENDING tasks, oldest first.
	// It does not change their status.
	ClaimPending(ctx context.Context, limit int) ([]*domain.Task, error)

	// MarkProcessing moves a task to PROCESSING.
	MarkProcessing(ctx context.Context, id uuid.UUID) error

	// MarkCompleted moves a task to COMPLETED with the correction result.
	MarkCompleted(ctx context.Context, id uuid.UUID, result domain.CorrectionResult) error

	// MarkFailed moves a task to FAILED. Repeated calls keep the latest message.
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error

	// FindStuck returns PROCESSING tasks last updated more than timeout ago.
	FindStuck(ctx context.Context, timeout time.Duration) ([]*domain.Task, error)
}

// Clock returns the current time.
type Clock func() time.Time

// TaskServiceOption customizes the task service.
type TaskServiceOption func(*taskServiceImpl)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(clock Clock) TaskServiceOption {
	return func(s *taskServiceImpl) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithDB runs every read-modify-write inside a transaction on db, locking the
// task row for its duration.
func WithDB(db *sql.DB) TaskServiceOption {
	return func(s *taskServiceImpl) {
		s.db = db
	}
}

type taskServiceImpl struct {
	tasks   store.TaskStore
	db      *sql.DB
	emitter events.EventEmitter
	now     Clock
	logger  *slog.Logger

	// mu serializes transitions when no database transaction is available.
	mu sync.Mutex
}

// NewTaskService creates a TaskService on top of a task store.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
	opts ...TaskServiceOption,
) (TaskService, error) {
	if tasks == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "task store cannot be nil"}
	}
	if emitter == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "event emitter cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		tasks:   tasks,
		emitter: emitter,
		now:     time.Now,
		logger:  logger.With("component", "task_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateTask implements TaskService.
func (s *taskServiceImpl) CreateTask(ctx context.Context, text, language string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateText(text); err != nil {
		log.DebugContext(ctx, "task text rejected", "error", err)
		return nil, err
	}
	lang, err := domain.ValidateLanguage(language)
	if err != nil {
		log.DebugContext(ctx, "task language rejected", "error", err, "language", language)
		return nil, err
	}

	task, err := domain.NewTask(text, lang, s.now())
	if err != nil {
		return nil, NewTaskServiceError("create_task", "failed to build task", err)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.ErrorContext(ctx, "failed to save task",
			"error", err,
			"task_id", task.ID)
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	log.InfoContext(ctx, "task created",
		"task_id", task.ID,
		"language", string(task.Language),
		"text_length", len([]rune(task.OriginalText)))

	s.emit(ctx, task)
	return task, nil
}

// GetTask implements TaskService.
func (s *taskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).ErrorContext(ctx, "failed to retrieve task",
				"error", err,
				"task_id", id)
		}
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// ClaimPending implements TaskService.
func (s *taskServiceImpl) ClaimPending(ctx context.Context, limit int) ([]*domain.Task, error) {
	tasks, err := s.tasks.FindPending(ctx, limit)
	if err != nil {
		return nil, NewTaskServiceError("claim_pending", "failed to find pending tasks", err)
	}
	return tasks, nil
}

// MarkProcessing implements TaskService.
func (s *taskServiceImpl) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, "mark_processing", id, func(t *domain.Task, now time.Time) {
		t.MarkProcessing(now)
	})
}

// MarkCompleted implements TaskService.
func (s *taskServiceImpl) MarkCompleted(ctx context.Context, id uuid.UUID, result domain.CorrectionResult) error {
	return s.transition(ctx, "mark_completed", id, func(t *domain.Task, now time.Time) {
		t.Complete(result, now)
	})
}

// MarkFailed implements TaskService.
func (s *taskServiceImpl) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	return s.transition(ctx, "mark_failed", id, func(t *domain.Task, now time.Time) {
		t.Fail(message, now)
	})
}

// FindStuck implements TaskService.
func (s *taskServiceImpl) FindStuck(ctx context.Context, timeout time.Duration) ([]*domain.Task, error) {
	cutoff := s.now().UTC().Add(-timeout)
	tasks, err := s.tasks.FindStuck(ctx, cutoff)
	if err != nil {
		return nil, NewTaskServiceError("find_stuck", "failed to find stuck tasks", err)
	}
	return tasks, nil
}

// transition loads a task, applies change and saves it as one unit of work.
func (s *taskServiceImpl) transition(
	ctx context.Context,
	op string,
	id uuid.UUID,
	change func(*domain.Task, time.Time),
) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With("task_id", id, "operation", op)

	var updated *domain.Task
	apply := func(ctx context.Context, tasks store.TaskStore) error {
		task, err := tasks.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		previous := task.Status()
		change(task, s.now())
		if previous.Terminal() && previous != task.Status() {
			log.WarnContext(ctx, "overwriting terminal task state",
				"previous_status", string(previous),
				"status", string(task.Status()))
		}

		if err := tasks.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	}

	var err error
	if s.db != nil {
		err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			return apply(ctx, s.tasks.WithTx(tx))
		})
	} else {
		err = func() error {
			s.mu.Lock()
			defer s.mu.Unlock()
			return apply(ctx, s.tasks)
		}()
	}
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.ErrorContext(ctx, "task transition failed", "error", err)
		}
		return NewTaskServiceError(op, fmt.Sprintf("failed to %s", op), err)
	}

	log.DebugContext(ctx, "task transitioned", "status", string(updated.Status()))
	s.emit(ctx, updated)
	return nil
}

// emit publishes the lifecycle event for task. Failures are only logged.
func (s *taskServiceImpl) emit(ctx context.Context, task *domain.Task) {
	event := events.NewTaskEvent(task)
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).WarnContext(ctx, "failed to emit task event",
			"error", err,
			"task_id", task.ID,
			"event_type", string(event.Type))
	}
}
