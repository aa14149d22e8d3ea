package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/errorfreetext/errorfree/internal/config"
	"github.com/errorfreetext/errorfree/internal/correction"
	"github.com/errorfreetext/errorfree/internal/events"
	"github.com/errorfreetext/errorfree/internal/platform/metrics"
	"github.com/errorfreetext/errorfree/internal/platform/postgres"
	"github.com/errorfreetext/errorfree/internal/platform/yandex"
	"github.com/errorfreetext/errorfree/internal/service"
	"github.com/errorfreetext/errorfree/internal/store"
	"github.com/errorfreetext/errorfree/internal/store/memory"
	"github.com/errorfreetext/errorfree/internal/task"
)

const readHeaderTimeout = 10 * time.Second

// application holds the shared dependencies of the serve command and owns
// their shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil with the memory driver.
	db *sql.DB

	metrics     *metrics.Metrics
	taskService service.TaskService
	scheduler   *task.Scheduler
	server      *http.Server
}

// newApplication wires stores, services, the speller client and the
// scheduler from cfg.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		metrics: metrics.New(),
	}

	tasks, err := app.setupTaskStore(ctx)
	if err != nil {
		return nil, err
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(app.metrics)

	var opts []service.TaskServiceOption
	if app.db != nil {
		opts = append(opts, service.WithDB(app.db))
	}
	app.taskService, err = service.NewTaskService(tasks, emitter, logger, opts...)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	speller, err := yandex.NewClient(cfg.Speller, logger, yandex.WithObserver(app.metrics))
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create speller client: %w", err)
	}

	engine, err := correction.NewEngine(speller, cfg.Speller.MaxChunkSize, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create correction engine: %w", err)
	}

	app.scheduler, err = task.NewScheduler(app.taskService, engine, cfg.Scheduler, logger,
		task.WithObserver(app.metrics))
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return app, nil
}

func (app *application) setupTaskStore(ctx context.Context) (store.TaskStore, error) {
	switch app.config.Database.Driver {
	case config.DriverMemory:
		app.logger.Warn("using in-memory task store, tasks are lost on restart")
		return memory.NewTaskStore(), nil

	case config.DriverPostgres:
		db, err := openDatabase(ctx, app.config.Database, app.logger)
		if err != nil {
			return nil, err
		}
		app.db = db

		if app.config.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, db, postgres.MigrateUp, app.logger); err != nil {
				app.cleanup()
				return nil, fmt.Errorf("failed to apply migrations: %w", err)
			}
		}
		return postgres.NewPostgresTaskStore(db, app.logger), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", app.config.Database.Driver)
	}
}

// run starts the scheduler and the HTTP server and blocks until ctx is
// cancelled or the server fails, then shuts both down.
func (app *application) run(ctx context.Context) error {
	app.scheduler.Start(ctx)

	serverErr := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", "addr", app.server.Addr)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		app.logger.Info("shutting down server")
	case err := <-serverErr:
		if err != nil {
			app.logger.Error("server failed", "error", err)
			runErr = fmt.Errorf("server failed: %w", err)
		}
	}

	if err := app.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (app *application) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
	defer cancel()

	var shutdownErr error
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("server shutdown failed", "error", err)
		shutdownErr = fmt.Errorf("server shutdown failed: %w", err)
	}

	app.scheduler.Stop()
	app.cleanup()

	app.logger.Info("shutdown completed")
	return shutdownErr
}

// cleanup releases resources. It is safe to call more than once.
func (app *application) cleanup() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
	}
	app.db = nil
}
