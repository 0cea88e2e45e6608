package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/purposelog/purposelog_backend/internal/apperrors"
	"github.com/purposelog/purposelog_backend/internal/core/domain"
	portsrepo "github.com/purposelog/purposelog_backend/internal/core/ports/repositories"
	portssvc "github.com/purposelog/purposelog_backend/internal/core/ports/services"
	"github.com/purposelog/purposelog_backend/internal/dto"
)

const (
	minTitleLength   = 3
	defaultPageLimit = 10
)

// sortableTaskFields whitelists the fields a listing may be ordered by.
var sortableTaskFields = map[string]bool{
	"title":     true,
	"status":    true,
	"priority":  true,
	"dueDate":   true,
	"createdAt": true,
	"updatedAt": true,
}

// taskService implements TaskSvcFacade.
type taskService struct {
	taskRepo portsrepo.TaskRepositoryFacade
}

// NewTaskService creates a new taskService.
func NewTaskService(taskRepo portsrepo.TaskRepositoryFacade) portssvc.TaskSvcFacade {
	return &taskService{taskRepo: taskRepo}
}

// parseDueDate accepts YYYY-MM-DD or RFC 3339 and requires a future date.
func parseDueDate(raw string) (*time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		parsed, err = time.Parse("2006-01-02", raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date format, use YYYY-MM-DD or RFC 3339", apperrors.ErrValidation)
	}
	if parsed.Before(time.Now()) {
		return nil, fmt.Errorf("%w: due date must be a future date", apperrors.ErrValidation)
	}
	return &parsed, nil
}

func (s *taskService) CreateTask(ctx context.Context, ownerID string, req dto.CreateTaskRequest) (*domain.Task, error) {
	title := strings.TrimSpace(req.Title)
	if len(title) < minTitleLength {
		return nil, fmt.Errorf("%w: task title of at least %d characters is required", apperrors.ErrValidation, minTitleLength)
	}

	status := domain.TaskStatusTodo
	if req.Status != "" {
		status = domain.TaskStatus(req.Status)
		if !domain.ValidTaskStatus(status) {
			return nil, fmt.Errorf("%w: invalid status value", apperrors.ErrValidation)
		}
	}

	priority := domain.TaskPriorityMedium
	if req.Priority != "" {
		priority = domain.TaskPriority(req.Priority)
		if !domain.ValidTaskPriority(priority) {
			return nil, fmt.Errorf("%w: invalid priority value", apperrors.ErrValidation)
		}
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		var err error
		dueDate, err = parseDueDate(req.DueDate)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	task := domain.Task{
		TaskID:      uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
		Timestamps: domain.Timestamps{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.taskRepo.SaveTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	return &task, nil
}

func (s *taskService) GetTaskByID(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	task, err := s.taskRepo.FindTaskByID(ctx, taskID, ownerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, ownerID string, params dto.ListTasksParams) ([]domain.Task, *dto.TaskListMeta, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	page := params.Page
	if page <= 0 {
		page = 1
	}

	sortBy := "createdAt"
	sortAsc := false
	if params.Sort != "" {
		if !sortableTaskFields[params.Sort] {
			return nil, nil, fmt.Errorf("%w: invalid sort field", apperrors.ErrValidation)
		}
		sortBy = params.Sort
		sortAsc = params.Order == "asc"
	}

	filter := domain.TaskFilter{
		Status:   domain.TaskStatus(params.Status),
		Priority: domain.TaskPriority(params.Priority),
		Search:   strings.TrimSpace(params.Search),
		SortBy:   sortBy,
		SortAsc:  sortAsc,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	tasks, err := s.taskRepo.ListTasks(ctx, ownerID, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	total, err := s.taskRepo.CountTasks(ctx, ownerID, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}

	meta := &dto.TaskListMeta{
		TotalTask:  total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
	return tasks, meta, nil
}

func (s *taskService) UpdateTask(ctx context.Context, ownerID, taskID string, req dto.UpdateTaskRequest) (*domain.Task, error) {
	task, err := s.taskRepo.FindTaskByID(ctx, taskID, ownerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load task for update: %w", err)
	}

	if req.Title != "" {
		title := strings.TrimSpace(req.Title)
		if len(title) < minTitleLength {
			return nil, fmt.Errorf("%w: task title of at least %d characters is required", apperrors.ErrValidation, minTitleLength)
		}
		task.Title = title
	}
	if req.Description != "" {
		task.Description = req.Description
	}
	if req.Status != "" {
		status := domain.TaskStatus(req.Status)
		if !domain.ValidTaskStatus(status) {
			return nil, fmt.Errorf("%w: invalid status value", apperrors.ErrValidation)
		}
		task.Status = status
	}
	if req.Priority != "" {
		priority := domain.TaskPriority(req.Priority)
		if !domain.ValidTaskPriority(priority) {
			return nil, fmt.Errorf("%w: invalid priority value", apperrors.ErrValidation)
		}
		task.Priority = priority
	}
	if req.DueDate != "" {
		dueDate, err := parseDueDate(req.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = dueDate
	}

	task.UpdatedAt = time.Now()
	if err := s.taskRepo.UpdateTask(ctx, *task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	task, err := s.taskRepo.FindTaskByID(ctx, taskID, ownerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load task for deletion: %w", err)
	}

	if err := s.taskRepo.DeleteTask(ctx, taskID, ownerID); err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}
	return task, nil
}
