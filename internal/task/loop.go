package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Job is one invocation of a background loop.
type Job func(ctx context.Context) error

// Loop runs a Job repeatedly with a fixed delay between the end of one run
// and the start of the next. Panics inside the job are recovered and logged.
type Loop struct {
	name     string
	interval time.Duration
	job      Job
	logger   *slog.Logger
	onRun    func(name string, err error)

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewLoop creates a stopped loop. interval must be positive.
func NewLoop(name string, interval time.Duration, job Job, logger *slog.Logger) (*Loop, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("loop %s: interval must be positive, got %s", name, interval)
	}
	if job == nil {
		return nil, fmt.Errorf("loop %s: job cannot be nil", name)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		name:     name,
		interval: interval,
		job:      job,
		logger:   logger.With("loop", name),
	}, nil
}

// Name returns the loop name.
func (l *Loop) Name() string { return l.name }

// Start launches the loop in its own goroutine. The first run happens
// immediately. Starting a running loop is a no-op.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	l.running = true

	go l.run(ctx, l.done)
	l.logger.Info("loop started", "interval", l.interval.String())
}

// Stop cancels the loop and waits for the in-flight run to return.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	cancel, done := l.cancel, l.done
	l.running = false
	l.mu.Unlock()

	cancel()
	<-done
	l.logger.Info("loop stopped")
}

// Running reports whether the loop has been started and not stopped.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

func (l *Loop) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			l.runOnce(ctx)
			if ctx.Err() != nil {
				return
			}
			timer.Reset(l.interval)
		}
	}
}

func (l *Loop) runOnce(ctx context.Context) {
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			l.logger.Error("loop run panicked", "panic", fmt.Sprint(r))
		}
		if l.onRun != nil {
			l.onRun(l.name, err)
		}
	}()

	err = l.job(ctx)
	if err != nil && ctx.Err() == nil {
		l.logger.Error("loop run failed", "error", err)
	}
}

// SetRunObserver registers a callback invoked after every run with the
// run's error, or nil. It must be called before Start.
func (l *Loop) SetRunObserver(fn func(name string, err error)) {
	l.onRun = fn
}
