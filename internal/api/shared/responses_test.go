package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/errorfreetext/errorfree/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/1", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, r, http.StatusCreated, map[string]string{"status": "PENDING"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"PENDING"}`, w.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	Now = func() time.Time { return fixed }
	t.Cleanup(func() { Now = time.Now })

	log, logs := logger.GetTestLogger(t)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", nil)
	r = r.WithContext(logger.WithLogger(r.Context(), log))
	w := httptest.NewRecorder()

	RespondWithErrorAndLog(w, r, http.StatusInternalServerError, 50000,
		"An unexpected error occurred",
		errors.New("dial postgres://app:secret@db:5432 failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 50000, body.ErrorCode)
	assert.Equal(t, "An unexpected error occurred", body.ErrorMessage)
	assert.Equal(t, "/api/v1/tasks", body.Path)
	assert.True(t, fixed.Equal(body.Timestamp))
	assert.NotContains(t, w.Body.String(), "secret")

	entries, err := logs.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0]["level"])
	assert.NotContains(t, entries[0]["error"], "secret")
}

func TestRespondWithError_LogsAtDebug(t *testing.T) {
	log, logs := logger.GetTestLogger(t)
	r := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/x", nil)
	r = r.WithContext(logger.WithLogger(r.Context(), log))
	w := httptest.NewRecorder()

	RespondWithError(w, r, http.StatusBadRequest, 40001, "Invalid request format")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	entries, err := logs.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "DEBUG", entries[0]["level"])
}

func TestRespondWithErrorAndLog_Elevated(t *testing.T) {
	log, logs := logger.GetTestLogger(t)
	r := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/x", nil)
	r = r.WithContext(logger.WithLogger(r.Context(), log))

	RespondWithErrorAndLog(httptest.NewRecorder(), r, http.StatusNotFound, 40401, "not found", nil,
		WithElevatedLogLevel())

	entries, err := logs.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "WARN", entries[0]["level"])
}
