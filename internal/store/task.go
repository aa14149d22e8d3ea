package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/errorfreetext/errorfree/internal/domain"
	"github.com/google/uuid"
)

// TaskStore defines persistence for correction tasks.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrDuplicate if a task with the same ID exists.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetForUpdate is GetByID that locks the row until the surrounding
	// transaction ends. Outside a transaction it behaves like GetByID.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update persists the task's state and UpdatedAt.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// FindPending returns up to limit PENDING tasks, oldest CreatedAt first.
	FindPending(ctx context.Context, limit int) ([]*domain.Task, error)

	// FindStuck returns PROCESSING tasks whose UpdatedAt is before cutoff,
	// oldest UpdatedAt first.
	FindStuck(ctx context.Context, cutoff time.Time) ([]*domain.Task, error)

	// WithTx returns a TaskStore bound to tx.
	WithTx(tx *sql.Tx) TaskStore
}
