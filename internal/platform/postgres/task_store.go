package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/errorfreetext/errorfree/internal/domain"
	"github.com/errorfreetext/errorfree/internal/platform/logger"
	"github.com/errorfreetext/errorfree/internal/store"
	"github.com/google/uuid"
)

const taskColumns = `id, original_text, language, status, corrected_text, options, error_message, created_at, updated_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a PostgresTaskStore on a connection or
// transaction managed by the caller. If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row, err := toRow(task)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query,
		task.ID,
		task.OriginalText,
		string(task.Language),
		row.status,
		row.correctedText,
		row.options,
		row.errorMessage,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("language", string(task.Language)))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.get(ctx, id, false)
}

// GetForUpdate implements store.TaskStore.GetForUpdate with SELECT ... FOR UPDATE.
func (s *PostgresTaskStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.get(ctx, id, true)
}

func (s *PostgresTaskStore) get(ctx context.Context, id uuid.UUID, lock bool) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}
	return task, nil
}

// Update implements store.TaskStore.Update.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row, err := toRow(task)
	if err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET status = $2, corrected_text = $3, options = $4::jsonb, error_message = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		task.ID,
		row.status,
		row.correctedText,
		row.options,
		row.errorMessage,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("status", row.status))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task update affected no rows",
			slog.String("task_id", task.ID.String()),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// FindPending implements store.TaskStore.FindPending.
func (s *PostgresTaskStore) FindPending(ctx context.Context, limit int) ([]*domain.Task, error) {
	if limit <= 0 {
		return []*domain.Task{}, nil
	}
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	return s.query(ctx, "find pending tasks", query, string(domain.TaskStatusPending), limit)
}

// FindStuck implements store.TaskStore.FindStuck.
func (s *PostgresTaskStore) FindStuck(ctx context.Context, cutoff time.Time) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE status = $1 AND updated_at < $2
		ORDER BY updated_at ASC
	`
	return s.query(ctx, "find stuck tasks", query, string(domain.TaskStatusProcessing), cutoff.UTC())
}

// WithTx implements store.TaskStore.WithTx.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresTaskStore) query(ctx context.Context, op, query string, args ...any) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to "+op, slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("op", op), slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("op", op), slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return tasks, nil
}

// taskRow holds the status-dependent columns of a task.
type taskRow struct {
	status        string
	correctedText sql.NullString
	options       string
	errorMessage  sql.NullString
}

func toRow(task *domain.Task) (taskRow, error) {
	row := taskRow{status: string(task.Status()), options: "[]"}

	if text, ok := task.CorrectedText(); ok {
		row.correctedText = sql.NullString{String: text, Valid: true}
	}
	if msg, ok := task.ErrorMessage(); ok {
		row.errorMessage = sql.NullString{String: msg, Valid: true}
	}
	if opts := task.Options(); len(opts) > 0 {
		encoded, err := json.Marshal(opts)
		if err != nil {
			return taskRow{}, fmt.Errorf("encode task options: %w", err)
		}
		row.options = string(encoded)
	}
	return row, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(r rowScanner) (*domain.Task, error) {
	var (
		task          domain.Task
		language      string
		status        string
		correctedText sql.NullString
		options       []byte
		errorMessage  sql.NullString
	)

	if err := r.Scan(
		&task.ID,
		&task.OriginalText,
		&language,
		&status,
		&correctedText,
		&options,
		&errorMessage,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}

	task.Language = domain.Language(language)

	parsedStatus, err := domain.ParseTaskStatus(status)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", task.ID, err)
	}

	var opts []domain.Option
	if len(options) > 0 {
		if err := json.Unmarshal(options, &opts); err != nil {
			return nil, fmt.Errorf("decode options of task %s: %w", task.ID, err)
		}
	}

	task.State, err = domain.RestoreState(parsedStatus, nullable(correctedText), opts, nullable(errorMessage))
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", task.ID, err)
	}

	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return &task, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
