package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/errorfreetext/errorfree/internal/config"
	"github.com/errorfreetext/errorfree/internal/domain"
	"github.com/errorfreetext/errorfree/internal/redact"
	"github.com/errorfreetext/errorfree/internal/service"
)

// Loop names, also used as metric labels.
const (
	LoopDrain    = "drain"
	LoopRecovery = "recovery"
)

// Per-task results reported to the Observer.
const (
	ResultCompleted = "completed"
	ResultFailed    = "failed"
	ResultAbandoned = "abandoned"
	ResultTimedOut  = "timed_out"
)

// Corrector produces the correction result for a task.
type Corrector interface {
	Correct(ctx context.Context, task *domain.Task) (domain.CorrectionResult, error)
}

// Observer receives scheduler statistics. *metrics.Metrics implements it.
type Observer interface {
	ObserveSchedulerRun(loop string, err error)
	AddSchedulerTasks(loop, result string, n int)
}

type nopObserver struct{}

func (nopObserver) ObserveSchedulerRun(string, error)    {}
func (nopObserver) AddSchedulerTasks(string, string, int) {}

// Scheduler drives pending tasks through correction and fails stuck ones.
type Scheduler struct {
	tasks     service.TaskService
	corrector Corrector
	cfg       config.SchedulerConfig
	observer  Observer
	logger    *slog.Logger

	drain    *Loop
	recovery *Loop
}

// SchedulerOption customizes a Scheduler.
type SchedulerOption func(*Scheduler)

// WithObserver reports run and task counts to o.
func WithObserver(o Observer) SchedulerOption {
	return func(s *Scheduler) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewScheduler creates a Scheduler. Loops are created stopped.
func NewScheduler(
	tasks service.TaskService,
	corrector Corrector,
	cfg config.SchedulerConfig,
	logger *slog.Logger,
	opts ...SchedulerOption,
) (*Scheduler, error) {
	if tasks == nil {
		return nil, errors.New("task service cannot be nil")
	}
	if corrector == nil {
		return nil, errors.New("corrector cannot be nil")
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", domain.ErrConfiguration, cfg.BatchSize)
	}
	if cfg.StuckTaskAge < time.Minute {
		return nil, fmt.Errorf("%w: stuck task age must be at least 1m, got %s", domain.ErrConfiguration, cfg.StuckTaskAge)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{
		tasks:     tasks,
		corrector: corrector,
		cfg:       cfg,
		observer:  nopObserver{},
		logger:    logger.With("component", "scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	if s.drain, err = NewLoop(LoopDrain, cfg.DrainInterval, s.DrainPending, s.logger); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	if s.recovery, err = NewLoop(LoopRecovery, cfg.RecoveryInterval, s.RecoverStuck, s.logger); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	s.drain.SetRunObserver(s.observer.ObserveSchedulerRun)
	s.recovery.SetRunObserver(s.observer.ObserveSchedulerRun)
	return s, nil
}

// Start starts the drain and recovery loops.
func (s *Scheduler) Start(ctx context.Context) {
	s.drain.Start(ctx)
	s.recovery.Start(ctx)
}

// Stop stops both loops and waits for in-flight runs to return.
func (s *Scheduler) Stop() {
	s.drain.Stop()
	s.recovery.Stop()
}

// TimeoutMessage is the failure message recorded on tasks failed by recovery.
func TimeoutMessage(age time.Duration) string {
	return fmt.Sprintf("Task processing timeout after %d minutes", int(age.Minutes()))
}

// DrainPending corrects one batch of pending tasks sequentially. A failing or
// panicking task is marked FAILED and the batch continues. When ctx is cancelled during a
// correction the task is left PROCESSING for recovery and ctx.Err is returned.
func (s *Scheduler) DrainPending(ctx context.Context) error {
	pending, err := s.tasks.ClaimPending(ctx, s.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("claim pending tasks: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}
	s.logger.InfoContext(ctx, "draining pending tasks", "count", len(pending))

	var completed, failed int
	defer func() {
		s.observer.AddSchedulerTasks(LoopDrain, ResultCompleted, completed)
		s.observer.AddSchedulerTasks(LoopDrain, ResultFailed, failed)
	}()

	for _, t := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.processIsolated(ctx, t)
		switch {
		case err == nil:
			completed++
		case ctx.Err() != nil:
			s.logger.WarnContext(ctx, "drain interrupted, task left processing",
				"task_id", t.ID)
			s.observer.AddSchedulerTasks(LoopDrain, ResultAbandoned, 1)
			return ctx.Err()
		default:
			failed++
			s.fail(ctx, t, err)
		}
	}
	return nil
}

// processIsolated runs process and turns a panic into an error so the task
// is failed and the batch continues.
func (s *Scheduler) processIsolated(ctx context.Context, t *domain.Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.process(ctx, t)
}

func (s *Scheduler) process(ctx context.Context, t *domain.Task) error {
	if err := s.tasks.MarkProcessing(ctx, t.ID); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	result, err := s.corrector.Correct(ctx, t)
	if err != nil {
		return err
	}

	if err := s.tasks.MarkCompleted(ctx, t.ID, result); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	s.logger.InfoContext(ctx, "task completed", "task_id", t.ID)
	return nil
}

func (s *Scheduler) fail(ctx context.Context, t *domain.Task, cause error) {
	s.logger.ErrorContext(ctx, "task correction failed",
		"task_id", t.ID,
		"error", redact.Error(cause))

	if err := s.tasks.MarkFailed(ctx, t.ID, domain.ErrorMessageOf(cause)); err != nil {
		s.logger.ErrorContext(ctx, "failed to mark task failed",
			"task_id", t.ID,
			"error", redact.Error(err))
	}
}

// RecoverStuck fails every task that has been PROCESSING for longer than the
// configured stuck age.
func (s *Scheduler) RecoverStuck(ctx context.Context) error {
	stuck, err := s.tasks.FindStuck(ctx, s.cfg.StuckTaskAge)
	if err != nil {
		return fmt.Errorf("find stuck tasks: %w", err)
	}
	if len(stuck) == 0 {
		return nil
	}
	s.logger.WarnContext(ctx, "found stuck tasks", "count", len(stuck))

	message := TimeoutMessage(s.cfg.StuckTaskAge)
	recovered := 0
	for _, t := range stuck {
		if err := ctx.Err(); err != nil {
			break
		}
		if err := s.tasks.MarkFailed(ctx, t.ID, message); err != nil {
			s.logger.ErrorContext(ctx, "failed to fail stuck task",
				"task_id", t.ID,
				"error", redact.Error(err))
			continue
		}
		recovered++
		s.logger.InfoContext(ctx, "stuck task failed",
			"task_id", t.ID,
			"stuck_since", t.UpdatedAt)
	}
	s.observer.AddSchedulerTasks(LoopRecovery, ResultTimedOut, recovered)
	return ctx.Err()
}
