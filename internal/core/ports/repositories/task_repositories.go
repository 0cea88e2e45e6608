package repositories

import (
	"context"

	"github.com/purposelog/purposelog_backend/internal/core/domain"
)

// TaskReader defines read operations for task data. Every query is scoped to
// an owner; a task belonging to another user behaves as if it did not exist.
type TaskReader interface {
	// FindTaskByID retrieves a task by id for the given owner.
	FindTaskByID(ctx context.Context, taskID, ownerID string) (*domain.Task, error)

	// ListTasks retrieves a filtered, sorted, paginated page of tasks.
	ListTasks(ctx context.Context, ownerID string, filter domain.TaskFilter) ([]domain.Task, error)

	// CountTasks returns the total number of tasks matching the filter,
	// ignoring its pagination fields.
	CountTasks(ctx context.Context, ownerID string, filter domain.TaskFilter) (int64, error)
}

// TaskWriter defines write operations for task data
type TaskWriter interface {
	// SaveTask persists a new task.
	SaveTask(ctx context.Context, task domain.Task) error

	// UpdateTask updates an existing task owned by task.OwnerID.
	UpdateTask(ctx context.Context, task domain.Task) error

	// DeleteTask removes a task by id for the given owner.
	DeleteTask(ctx context.Context, taskID, ownerID string) error

	// DeleteTasksByOwner removes all tasks owned by a user (account deletion).
	DeleteTasksByOwner(ctx context.Context, ownerID string) error
}

// TaskRepositoryFacade combines all task repository interfaces.
type TaskRepositoryFacade interface {
	TaskReader
	TaskWriter
}
