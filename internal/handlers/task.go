package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/dto"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/middleware"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/policy"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/services"
	"github.com/yukikurage/project-task-api/internal/utils"
)

// TaskHandler serves the task endpoints nested under a project. The
// project has already been loaded and authorized by
// middleware.RequireProjectAccess; the task itself is authorized here.
type TaskHandler struct {
	taskService *services.TaskService
	gate        policy.Authorizer
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, gate policy.Authorizer) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		gate:        gate,
	}
}

type listTasksQuery struct {
	Status  *string `form:"status" binding:"omitempty,oneof=todo in_progress done"`
	DueDate *string `form:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Search  *string `form:"search"`
}

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description string  `json:"description"`
	Status      string  `json:"status" binding:"omitempty,oneof=todo in_progress done"`
	DueDate     *string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}

type updateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=todo in_progress done"`
	// An explicit empty string clears the due date.
	DueDate *string `json:"due_date"`
}

func parseDueDate(value string) (time.Time, error) {
	return time.ParseInLocation(constants.DueDateLayout, value, time.UTC)
}

// ListTasks returns one page of the project's tasks. Results are cached per
// user and query until a task of the project changes.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	var query listTasksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid query parameters", err.Error())
		return
	}

	var filter repository.TaskFilter
	if query.Status != nil {
		status := models.TaskStatus(*query.Status)
		filter.Status = &status
	}
	if query.DueDate != nil {
		due, err := parseDueDate(*query.DueDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid due_date")
			return
		}
		filter.DueDate = &due
	}
	filter.Search = query.Search

	page, err := h.taskService.List(c.Request.Context(), services.ListTasksInput{
		UserID:  userID,
		Project: project,
		Filter:  filter,
		Page:    utils.GetPaginationParams(c),
		Params:  c.Request.URL.Query(),
	})
	if err != nil {
		respondServiceError(c, err, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(page.Tasks, page.Pagination))
}

// CreateTask creates a task in the project
func (h *TaskHandler) CreateTask(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	input := services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
	}
	if req.DueDate != nil {
		due, err := parseDueDate(*req.DueDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid due_date")
			return
		}
		input.DueDate = &due
	}

	task, err := h.taskService.Create(c.Request.Context(), project, input)
	if err != nil {
		respondServiceError(c, err, "Failed to create task")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a task of the project
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := h.authorizeTask(c, policy.ActionView)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask changes a task of the project
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := h.authorizeTask(c, policy.ActionUpdate)
	if !ok {
		return
	}
	project, _ := middleware.GetProject(c)

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			input.ClearDueDate = true
		} else {
			due, err := parseDueDate(*req.DueDate)
			if err != nil {
				apierrors.BadRequest(c, "Invalid due_date")
				return
			}
			input.DueDate = &due
		}
	}

	if _, err := h.taskService.Update(c.Request.Context(), project, task, input); err != nil {
		respondServiceError(c, err, "Failed to update task")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task of the project and its comments
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := h.authorizeTask(c, policy.ActionDelete)
	if !ok {
		return
	}
	project, _ := middleware.GetProject(c)

	if _, err := h.taskService.Delete(c.Request.Context(), project, task); err != nil {
		respondServiceError(c, err, "Failed to delete task")
		return
	}

	c.Status(http.StatusNoContent)
}

// authorizeTask loads the :task_id task of the context project and checks
// action on it. It writes the error response itself.
func (h *TaskHandler) authorizeTask(c *gin.Context, action policy.Action) (*models.Task, bool) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return nil, false
	}
	userID, _ := middleware.GetUserID(c)

	taskID, err := strconv.ParseUint(c.Param("task_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return nil, false
	}

	task, err := h.taskService.Get(c.Request.Context(), project, taskID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch task")
		return nil, false
	}

	if !h.gate.Can(userID, action, task) {
		apierrors.Forbidden(c, "")
		return nil, false
	}

	return task, true
}
