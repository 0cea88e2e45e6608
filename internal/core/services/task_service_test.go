package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/purposelog/purposelog_backend/internal/apperrors"
	"github.com/purposelog/purposelog_backend/internal/core/domain"
	portssvc "github.com/purposelog/purposelog_backend/internal/core/ports/services"
	"github.com/purposelog/purposelog_backend/internal/core/services"
	"github.com/purposelog/purposelog_backend/internal/dto"
)

// --- Test Suite ---
type TaskServiceTestSuite struct {
	suite.Suite
	mockTaskRepo *MockTaskRepository
	service      portssvc.TaskSvcFacade
	ctx          context.Context
	ownerID      string
}

func (suite *TaskServiceTestSuite) SetupTest() {
	suite.mockTaskRepo = new(MockTaskRepository)
	suite.service = services.NewTaskService(suite.mockTaskRepo)
	suite.ctx = context.Background()
	suite.ownerID = uuid.NewString()
}

func (suite *TaskServiceTestSuite) TestCreateTask_Defaults() {
	suite.mockTaskRepo.On("SaveTask", suite.ctx, mock.MatchedBy(func(t domain.Task) bool {
		return t.OwnerID == suite.ownerID &&
			t.Title == "Buy groceries" &&
			t.Status == domain.TaskStatusTodo &&
			t.Priority == domain.TaskPriorityMedium &&
			t.DueDate == nil
	})).Return(nil).Once()

	task, err := suite.service.CreateTask(suite.ctx, suite.ownerID, dto.CreateTaskRequest{Title: "  Buy groceries  "})

	suite.NoError(err)
	suite.Equal("Buy groceries", task.Title)
	suite.Equal(domain.TaskStatusTodo, task.Status)
	suite.Equal(domain.TaskPriorityMedium, task.Priority)
	suite.NotEmpty(task.TaskID)
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *TaskServiceTestSuite) TestCreateTask_TitleTooShort() {
	task, err := suite.service.CreateTask(suite.ctx, suite.ownerID, dto.CreateTaskRequest{Title: "ab"})

	suite.Nil(task)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTaskRepo.AssertNotCalled(suite.T(), "SaveTask")
}

func (suite *TaskServiceTestSuite) TestCreateTask_InvalidStatus() {
	task, err := suite.service.CreateTask(suite.ctx, suite.ownerID, dto.CreateTaskRequest{Title: "Buy groceries", Status: "blocked"})

	suite.Nil(task)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TaskServiceTestSuite) TestCreateTask_WithFutureDueDate() {
	due := time.Now().Add(48 * time.Hour).UTC().Format("2006-01-02")

	suite.mockTaskRepo.On("SaveTask", suite.ctx, mock.MatchedBy(func(t domain.Task) bool {
		return t.DueDate != nil
	})).Return(nil).Once()

	task, err := suite.service.CreateTask(suite.ctx, suite.ownerID, dto.CreateTaskRequest{Title: "Buy groceries", DueDate: due})

	suite.NoError(err)
	suite.NotNil(task.DueDate)
}

func (suite *TaskServiceTestSuite) TestCreateTask_PastDueDate() {
	task, err := suite.service.CreateTask(suite.ctx, suite.ownerID, dto.CreateTaskRequest{Title: "Buy groceries", DueDate: "2020-01-01"})

	suite.Nil(task)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TaskServiceTestSuite) TestCreateTask_BadDueDateFormat() {
	task, err := suite.service.CreateTask(suite.ctx, suite.ownerID, dto.CreateTaskRequest{Title: "Buy groceries", DueDate: "31/12/2030"})

	suite.Nil(task)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TaskServiceTestSuite) TestListTasks_DefaultsAndMeta() {
	expected := []domain.Task{
		{TaskID: uuid.NewString(), OwnerID: suite.ownerID, Title: "First"},
		{TaskID: uuid.NewString(), OwnerID: suite.ownerID, Title: "Second"},
	}

	suite.mockTaskRepo.On("ListTasks", suite.ctx, suite.ownerID, mock.MatchedBy(func(f domain.TaskFilter) bool {
		return f.Limit == 10 && f.Offset == 0 && f.SortBy == "createdAt" && !f.SortAsc
	})).Return(expected, nil).Once()
	suite.mockTaskRepo.On("CountTasks", suite.ctx, suite.ownerID, mock.AnythingOfType("domain.TaskFilter")).
		Return(int64(25), nil).Once()

	tasks, meta, err := suite.service.ListTasks(suite.ctx, suite.ownerID, dto.ListTasksParams{})

	suite.NoError(err)
	suite.Len(tasks, 2)
	suite.Equal(int64(25), meta.TotalTask)
	suite.Equal(1, meta.Page)
	suite.Equal(10, meta.Limit)
	suite.Equal(int64(3), meta.TotalPages)
}

func (suite *TaskServiceTestSuite) TestListTasks_PaginationOffset() {
	suite.mockTaskRepo.On("ListTasks", suite.ctx, suite.ownerID, mock.MatchedBy(func(f domain.TaskFilter) bool {
		return f.Limit == 5 && f.Offset == 10
	})).Return([]domain.Task{}, nil).Once()
	suite.mockTaskRepo.On("CountTasks", suite.ctx, suite.ownerID, mock.AnythingOfType("domain.TaskFilter")).
		Return(int64(11), nil).Once()

	_, meta, err := suite.service.ListTasks(suite.ctx, suite.ownerID, dto.ListTasksParams{Page: 3, Limit: 5})

	suite.NoError(err)
	suite.Equal(3, meta.Page)
	suite.Equal(int64(3), meta.TotalPages)
}

func (suite *TaskServiceTestSuite) TestListTasks_SortWhitelist() {
	_, _, err := suite.service.ListTasks(suite.ctx, suite.ownerID, dto.ListTasksParams{Sort: "password_hash"})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTaskRepo.AssertNotCalled(suite.T(), "ListTasks")
}

func (suite *TaskServiceTestSuite) TestListTasks_FiltersPassedThrough() {
	suite.mockTaskRepo.On("ListTasks", suite.ctx, suite.ownerID, mock.MatchedBy(func(f domain.TaskFilter) bool {
		return f.Status == domain.TaskStatusDone &&
			f.Priority == domain.TaskPriorityHigh &&
			f.Search == "groceries" &&
			f.SortBy == "dueDate" && f.SortAsc
	})).Return([]domain.Task{}, nil).Once()
	suite.mockTaskRepo.On("CountTasks", suite.ctx, suite.ownerID, mock.AnythingOfType("domain.TaskFilter")).
		Return(int64(0), nil).Once()

	_, meta, err := suite.service.ListTasks(suite.ctx, suite.ownerID, dto.ListTasksParams{
		Status:   "done",
		Priority: "high",
		Search:   " groceries ",
		Sort:     "dueDate",
		Order:    "asc",
	})

	suite.NoError(err)
	suite.Equal(int64(0), meta.TotalTask)
	suite.Equal(int64(0), meta.TotalPages)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_PartialUpdate() {
	taskID := uuid.NewString()
	stored := &domain.Task{
		TaskID:   taskID,
		OwnerID:  suite.ownerID,
		Title:    "Original title",
		Status:   domain.TaskStatusTodo,
		Priority: domain.TaskPriorityLow,
	}

	suite.mockTaskRepo.On("FindTaskByID", suite.ctx, taskID, suite.ownerID).Return(stored, nil).Once()
	suite.mockTaskRepo.On("UpdateTask", suite.ctx, mock.MatchedBy(func(t domain.Task) bool {
		return t.Title == "Original title" && t.Status == domain.TaskStatusDone && t.Priority == domain.TaskPriorityLow
	})).Return(nil).Once()

	task, err := suite.service.UpdateTask(suite.ctx, suite.ownerID, taskID, dto.UpdateTaskRequest{Status: "done"})

	suite.NoError(err)
	suite.Equal(domain.TaskStatusDone, task.Status)
	suite.Equal("Original title", task.Title)
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *TaskServiceTestSuite) TestUpdateTask_NotFound() {
	taskID := uuid.NewString()
	suite.mockTaskRepo.On("FindTaskByID", suite.ctx, taskID, suite.ownerID).
		Return(nil, apperrors.ErrNotFound).Once()

	task, err := suite.service.UpdateTask(suite.ctx, suite.ownerID, taskID, dto.UpdateTaskRequest{Status: "done"})

	suite.Nil(task)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTaskRepo.AssertNotCalled(suite.T(), "UpdateTask")
}

func (suite *TaskServiceTestSuite) TestGetTaskByID_NotFound() {
	taskID := uuid.NewString()
	suite.mockTaskRepo.On("FindTaskByID", suite.ctx, taskID, suite.ownerID).
		Return(nil, apperrors.ErrNotFound).Once()

	task, err := suite.service.GetTaskByID(suite.ctx, suite.ownerID, taskID)

	suite.Nil(task)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TaskServiceTestSuite) TestDeleteTask_ReturnsDeletedTask() {
	taskID := uuid.NewString()
	stored := &domain.Task{TaskID: taskID, OwnerID: suite.ownerID, Title: "Doomed task"}

	suite.mockTaskRepo.On("FindTaskByID", suite.ctx, taskID, suite.ownerID).Return(stored, nil).Once()
	suite.mockTaskRepo.On("DeleteTask", suite.ctx, taskID, suite.ownerID).Return(nil).Once()

	task, err := suite.service.DeleteTask(suite.ctx, suite.ownerID, taskID)

	suite.NoError(err)
	suite.Equal("Doomed task", task.Title)
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *TaskServiceTestSuite) TestDeleteTask_NotFound() {
	taskID := uuid.NewString()
	suite.mockTaskRepo.On("FindTaskByID", suite.ctx, taskID, suite.ownerID).
		Return(nil, apperrors.ErrNotFound).Once()

	task, err := suite.service.DeleteTask(suite.ctx, suite.ownerID, taskID)

	suite.Nil(task)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTaskRepo.AssertNotCalled(suite.T(), "DeleteTask")
}

func TestTaskService(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
