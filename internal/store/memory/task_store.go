// Package memory provides an in-memory store.TaskStore for local runs and tests.
package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/errorfreetext/errorfree/internal/domain"
	"github.com/errorfreetext/errorfree/internal/store"
	"github.com/google/uuid"
)

// TaskStore keeps tasks in a map guarded by a mutex. Tasks are copied on the
// way in and out so callers never share state with the store.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*domain.Task
}

// NewTaskStore creates an empty TaskStore.
func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.
func (s *TaskStore) Create(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; ok {
		return fmt.Errorf("%w: task %s", store.ErrDuplicate, task.ID)
	}
	s.tasks[task.ID] = clone(task)
	return nil
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return clone(t), nil
}

// GetForUpdate implements store.TaskStore. There is no row locking.
func (s *TaskStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.GetByID(ctx, id)
}

// Update implements store.TaskStore.
func (s *TaskStore) Update(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}
	updated := clone(task)
	updated.OriginalText = existing.OriginalText
	updated.Language = existing.Language
	updated.CreatedAt = existing.CreatedAt
	s.tasks[task.ID] = updated
	return nil
}

// FindPending implements store.TaskStore.
func (s *TaskStore) FindPending(_ context.Context, limit int) ([]*domain.Task, error) {
	if limit <= 0 {
		return []*domain.Task{}, nil
	}
	found := s.filter(func(t *domain.Task) bool {
		return t.Status() == domain.TaskStatusPending
	})
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].CreatedAt.Before(found[j].CreatedAt)
	})
	if len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

// FindStuck implements store.TaskStore.
func (s *TaskStore) FindStuck(_ context.Context, cutoff time.Time) ([]*domain.Task, error) {
	found := s.filter(func(t *domain.Task) bool {
		return t.Status() == domain.TaskStatusProcessing && t.UpdatedAt.Before(cutoff)
	})
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].UpdatedAt.Before(found[j].UpdatedAt)
	})
	return found, nil
}

// WithTx implements store.TaskStore. The memory store has no transactions.
func (s *TaskStore) WithTx(*sql.Tx) store.TaskStore {
	return s
}

// Len returns the number of stored tasks.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

func (s *TaskStore) filter(keep func(*domain.Task) bool) []*domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make([]*domain.Task, 0)
	for _, t := range s.tasks {
		if keep(t) {
			found = append(found, clone(t))
		}
	}
	return found
}

func clone(t *domain.Task) *domain.Task {
	c := *t
	if completed, ok := t.State.(domain.Completed); ok {
		opts := make([]domain.Option, len(completed.Options))
		copy(opts, completed.Options)
		completed.Options = opts
		c.State = completed
	}
	return &c
}
