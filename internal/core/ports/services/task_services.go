package services

import (
	"context"

	"github.com/purposelog/purposelog_backend/internal/core/domain"
	"github.com/purposelog/purposelog_backend/internal/dto"
)

// TaskSvcFacade defines task CRUD scoped to an owning user.
type TaskSvcFacade interface {
	// CreateTask validates and persists a new task for the owner.
	CreateTask(ctx context.Context, ownerID string, req dto.CreateTaskRequest) (*domain.Task, error)

	// GetTaskByID retrieves a single task owned by ownerID.
	GetTaskByID(ctx context.Context, ownerID, taskID string) (*domain.Task, error)

	// ListTasks returns a filtered, paginated page of tasks plus metadata.
	ListTasks(ctx context.Context, ownerID string, params dto.ListTasksParams) ([]domain.Task, *dto.TaskListMeta, error)

	// UpdateTask applies a partial update to a task owned by ownerID.
	UpdateTask(ctx context.Context, ownerID, taskID string, req dto.UpdateTaskRequest) (*domain.Task, error)

	// DeleteTask removes a task owned by ownerID and returns the deleted task.
	DeleteTask(ctx context.Context, ownerID, taskID string) (*domain.Task, error)
}
