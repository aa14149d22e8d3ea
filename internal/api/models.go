package api

import (
	"time"

	"github.com/errorfreetext/errorfree/internal/domain"
)

// CreateTaskRequest is the body of POST /api/v1/tasks.
type CreateTaskRequest struct {
	Text     string `json:"text"     validate:"required"`
	Language string `json:"language" validate:"required"`
}

// TaskCreatedResponse is returned when a task has been accepted.
type TaskCreatedResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TaskResponse is the full view of a task. CorrectedText is present only for
// COMPLETED tasks and ErrorMessage only for FAILED ones.
type TaskResponse struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	CorrectedText *string   `json:"correctedText,omitempty"`
	ErrorMessage  *string   `json:"errorMessage,omitempty"`
}

func taskToCreatedResponse(task *domain.Task) TaskCreatedResponse {
	return TaskCreatedResponse{
		ID:        task.ID.String(),
		Status:    string(task.Status()),
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

func taskToResponse(task *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:        task.ID.String(),
		Status:    string(task.Status()),
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
	if text, ok := task.CorrectedText(); ok {
		resp.CorrectedText = &text
	}
	if msg, ok := task.ErrorMessage(); ok {
		resp.ErrorMessage = &msg
	}
	return resp
}
