package dto

import (
	"time"

	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64            `json:"id"`
	ProjectID   uint64            `json:"project_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	DueDate     *string           `json:"due_date"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Project     *ProjectDTO       `json:"project,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// FormatDueDate renders a due date as a calendar date.
func FormatDueDate(due *time.Time) *string {
	if due == nil {
		return nil
	}
	s := due.UTC().Format(constants.DueDateLayout)
	return &s
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		DueDate:     FormatDueDate(task.DueDate),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include project if preloaded
	if task.Project.ID != 0 {
		project := ToProjectDTO(task.Project)
		dto.Project = &project
	}

	return dto
}

// ToTaskListResponse converts a page of tasks to TaskListResponse. Listed
// tasks carry no project.
func ToTaskListResponse(tasks []models.Task, pagination utils.PaginationResponse) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		task.Project = models.Project{}
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       pagination.Page,
		PageSize:   pagination.PerPage,
		TotalCount: pagination.Total,
		TotalPages: pagination.TotalPages,
	}
}
