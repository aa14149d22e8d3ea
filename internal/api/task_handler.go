package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/errorfreetext/errorfree/internal/api/shared"
	"github.com/errorfreetext/errorfree/internal/platform/logger"
	"github.com/errorfreetext/errorfree/internal/service"
	"github.com/go-chi/chi/v5"
)

// TaskHandler serves the task endpoints.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With("component", "task_handler"),
	}
}

// Routes registers the task endpoints on r.
func (h *TaskHandler) Routes(r chi.Router) {
	r.Post("/tasks", h.CreateTask)
	r.Get("/tasks/{id}", h.GetTask)
}

// CreateTask handles POST /api/v1/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTaskRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		log.Debug("invalid task request body", "error", err)
		shared.RespondWithError(w, r, http.StatusBadRequest, ErrorCodeValidation, msgInvalidFormat)
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, ErrorCodeValidation,
			GetSafeErrorMessage(err), err)
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), req.Text, req.Language)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToCreatedResponse(task))
}

// GetTask handles GET /api/v1/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("invalid task id",
			"value", chi.URLParam(r, "id"))
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.tasks.GetTask(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			HandleAPIError(w, r, err, fmt.Sprintf("Task with id '%s' not found", id))
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}
