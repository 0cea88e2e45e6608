package dto

import (
	"time"

	"github.com/purposelog/purposelog_backend/internal/core/domain"
)

// CreateTaskRequest carries a new task. DueDate accepts YYYY-MM-DD or full
// RFC 3339; parsing and the future-date check happen in the service.
type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"omitempty,oneof=todo in-progress done"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     string `json:"dueDate"`
}

// UpdateTaskRequest carries a partial task update; empty fields are unchanged.
type UpdateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"omitempty,oneof=todo in-progress done"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     string `json:"dueDate"`
}

// ListTasksParams defines query parameters for listing tasks.
type ListTasksParams struct {
	Status   string `form:"status" binding:"omitempty,oneof=todo in-progress done"`
	Priority string `form:"priority" binding:"omitempty,oneof=low medium high"`
	Search   string `form:"search"`
	Sort     string `form:"sort"`
	Order    string `form:"order" binding:"omitempty,oneof=asc desc"`
	Limit    int    `form:"limit,default=10"`
	Page     int    `form:"page,default=1"`
}

// TaskResponse is the read shape of a task.
type TaskResponse struct {
	TaskID      string     `json:"taskID"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskListMeta is the pagination metadata returned alongside task listings.
type TaskListMeta struct {
	TotalTask  int64 `json:"totalTask"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

// ToTaskResponse converts a domain.Task to its response shape.
func ToTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		TaskID:      task.TaskID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskResponseList converts a slice of domain tasks.
func ToTaskResponseList(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = ToTaskResponse(&tasks[i])
	}
	return out
}
