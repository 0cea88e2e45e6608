package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/purposelog/purposelog_backend/internal/core/ports/services"
	"github.com/purposelog/purposelog_backend/internal/dto"
	"github.com/purposelog/purposelog_backend/internal/middleware"
)

// TaskHandler serves the per-user task CRUD endpoints.
type TaskHandler struct {
	taskService portssvc.TaskSvcFacade
}

func NewTaskHandler(taskService portssvc.TaskSvcFacade) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTask godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body dto.CreateTaskRequest true "Task fields"
// @Success 201 {object} dto.Response{data=dto.TaskResponse}
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized request. Token missing"))
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request: "+err.Error()))
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err, "Task not found")
		return
	}

	c.JSON(http.StatusCreated, dto.OK("Task created successfully", dto.ToTaskResponse(task)))
}

// ListTasks godoc
// @Summary List the current user's tasks
// @Description Supports status/priority filters, title search, sorting and pagination.
// @Tags tasks
// @Produce json
// @Param status query string false "Filter by status" Enums(todo, in-progress, done)
// @Param priority query string false "Filter by priority" Enums(low, medium, high)
// @Param search query string false "Case-insensitive title search"
// @Param sort query string false "Sort field (title, status, priority, dueDate, createdAt, updatedAt)"
// @Param order query string false "Sort order" Enums(asc, desc)
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10)"
// @Success 200 {object} dto.Response{data=[]dto.TaskResponse,meta=dto.TaskListMeta}
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized request. Token missing"))
		return
	}

	var params dto.ListTasksParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid query parameters: "+err.Error()))
		return
	}

	tasks, meta, err := h.taskService.ListTasks(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err, "Task not found")
		return
	}

	c.JSON(http.StatusOK, dto.OKWithMeta("Tasks fetched successfully", dto.ToTaskResponseList(tasks), meta))
}

// GetTask godoc
// @Summary Get a single task
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.Response{data=dto.TaskResponse}
// @Failure 401 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized request. Token missing"))
		return
	}

	task, err := h.taskService.GetTaskByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Task not found")
		return
	}

	c.JSON(http.StatusOK, dto.OK("Task fetched successfully", dto.ToTaskResponse(task)))
}

// UpdateTask godoc
// @Summary Update a task
// @Description Partial update. Only the provided fields change.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.UpdateTaskRequest true "Fields to update"
// @Success 200 {object} dto.Response{data=dto.TaskResponse}
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized request. Token missing"))
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request: "+err.Error()))
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "Task not found")
		return
	}

	c.JSON(http.StatusOK, dto.OK("Task updated successfully", dto.ToTaskResponse(task)))
}

// DeleteTask godoc
// @Summary Delete a task
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.Response{data=dto.TaskResponse}
// @Failure 401 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized request. Token missing"))
		return
	}

	task, err := h.taskService.DeleteTask(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Task not found")
		return
	}

	c.JSON(http.StatusOK, dto.OK("Task deleted successfully", dto.ToTaskResponse(task)))
}
