package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/errorfreetext/errorfree/internal/platform/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskColumns = []string{
	"id", "original_text", "language", "status", "corrected_text",
	"options", "error_message", "created_at", "updated_at",
}

func TestMarkProcessing_RunsInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	created := now.Add(-time.Minute)
	id := uuid.New()

	svc, err := NewTaskService(postgres.NewPostgresTaskStore(db, log), &recordingEmitter{}, log,
		WithDB(db),
		WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(taskColumns).
			AddRow(id.String(), "Helo", "EN", "PENDING", nil, []byte(`[]`), nil, created, created))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).
		WithArgs(id, "PROCESSING", nil, "[]", nil, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.MarkProcessing(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkFailed_RollsBackOnUpdateError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Now().UTC()
	id := uuid.New()
	emitter := &recordingEmitter{}

	svc, err := NewTaskService(postgres.NewPostgresTaskStore(db, log), emitter, log, WithDB(db))
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows(taskColumns).
			AddRow(id.String(), "Helo", "EN", "PROCESSING", nil, []byte(`[]`), nil, now, now))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	err = svc.MarkFailed(context.Background(), id, "boom")
	require.Error(t, err)

	var svcErr *TaskServiceError
	assert.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "mark_failed", svcErr.Operation)
	assert.Empty(t, emitter.types())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkProcessing_NotFoundInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := NewTaskService(postgres.NewPostgresTaskStore(db, log), &recordingEmitter{}, log, WithDB(db))
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows(taskColumns))
	mock.ExpectRollback()

	err = svc.MarkProcessing(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
