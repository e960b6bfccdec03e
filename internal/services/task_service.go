package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/yukikurage/project-task-api/internal/cache"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/notify"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/utils"
)

// TaskService handles task business logic. Every successful task mutation
// advances the parent project's tasks_last_updated_at, which invalidates the
// cached listings of that project.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	listCache   *cache.Cache
	publisher   notify.Publisher
	now         func() time.Time
	logger      *slog.Logger
}

// TaskServiceOption configures a TaskService.
type TaskServiceOption func(*TaskService)

// WithTaskClock overrides the time source.
func WithTaskClock(now func() time.Time) TaskServiceOption {
	return func(s *TaskService) {
		s.now = now
	}
}

// WithTaskLogger overrides the logger.
func WithTaskLogger(logger *slog.Logger) TaskServiceOption {
	return func(s *TaskService) {
		s.logger = logger
	}
}

// NewTaskService creates a new TaskService. listCache and publisher may be nil.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, listCache *cache.Cache, publisher notify.Publisher, opts ...TaskServiceOption) *TaskService {
	s := &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		listCache:   listCache,
		publisher:   publisher,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListTasksInput represents a task listing request
type ListTasksInput struct {
	UserID  uint64
	Project *models.Project
	Filter  repository.TaskFilter
	Page    utils.PaginationParams
	// Params are the raw query parameters; they are part of the cache key.
	Params url.Values
}

// TaskPage is one page of a task listing
type TaskPage struct {
	Tasks      []models.Task            `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	DueDate     *time.Time
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	DueDate      *time.Time
	ClearDueDate bool
}

func (in UpdateTaskInput) fields() map[string]any {
	fields := map[string]any{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	if in.ClearDueDate {
		fields["due_date"] = nil
	} else if in.DueDate != nil {
		fields["due_date"] = NormalizeDueDate(*in.DueDate)
	}
	return fields
}

// NormalizeDueDate drops the time of day; due dates are calendar dates
// stored as UTC midnight.
func NormalizeDueDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// List returns one page of the project's tasks, served from the listing
// cache when the project's tasks have not changed since it was stored.
func (s *TaskService) List(ctx context.Context, input ListTasksInput) (*TaskPage, error) {
	project := input.Project
	key := cache.TaskListKey(project.ID, input.UserID, project.TasksLastUpdatedAt, input.Params)

	page, hit, err := cache.RememberJSON(ctx, s.listCache, key, func(ctx context.Context) (TaskPage, error) {
		tasks, total, err := s.taskRepo.List(ctx, project.ID, input.Filter, input.Page)
		if err != nil {
			return TaskPage{}, err
		}
		return TaskPage{
			Tasks:      tasks,
			Pagination: utils.NewPaginationResponse(input.Page, total),
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	s.logger.Debug("task listing", "project_id", project.ID, "user_id", input.UserID, "cache_hit", hit)
	return &page, nil
}

// Create creates a task in the project.
func (s *TaskService) Create(ctx context.Context, project *models.Project, input CreateTaskInput) (*models.Task, error) {
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
	}
	if input.DueDate != nil {
		due := NormalizeDueDate(*input.DueDate)
		task.DueDate = &due
	}

	if err := s.taskRepo.Create(ctx, project.ID, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.touchProject(ctx, project)
	task.Project = *project

	return task, nil
}

// Get returns the task if it belongs to project, ErrTaskNotFound otherwise.
func (s *TaskService) Get(ctx context.Context, project *models.Project, id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task == nil || task.ProjectID != project.ID {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// GetByID returns the task with its project loaded, ErrTaskNotFound otherwise.
func (s *TaskService) GetByID(ctx context.Context, id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// Update applies input to task and refreshes it. It reports whether a row
// was written; only then is the project touched. A status change notifies
// the project owner.
func (s *TaskService) Update(ctx context.Context, project *models.Project, task *models.Task, input UpdateTaskInput) (bool, error) {
	fields := input.fields()
	if len(fields) == 0 {
		return false, nil
	}

	oldStatus := task.Status

	updated, err := s.taskRepo.Update(ctx, task, fields)
	if err != nil {
		return false, fmt.Errorf("failed to update task: %w", err)
	}
	if !updated {
		return false, nil
	}

	s.touchProject(ctx, project)

	fresh, err := s.taskRepo.FindByID(ctx, task.ID)
	if err != nil {
		return true, fmt.Errorf("failed to reload task: %w", err)
	}
	if fresh != nil {
		*task = *fresh
	}

	if task.Status != oldStatus && s.publisher != nil {
		s.publisher.Publish(notify.TaskStatusChanged(project, task, oldStatus, s.now()))
	}

	return true, nil
}

// Delete removes the task and its comments.
func (s *TaskService) Delete(ctx context.Context, project *models.Project, task *models.Task) (bool, error) {
	deleted, err := s.taskRepo.Delete(ctx, task)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return false, nil
	}

	s.touchProject(ctx, project)
	return true, nil
}

// touchProject advances tasks_last_updated_at. The timestamp strictly
// increases even if the clock does not. A failure leaves cached listings
// valid until their TTL runs out; the task mutation itself stands.
func (s *TaskService) touchProject(ctx context.Context, project *models.Project) {
	at := s.now().UTC().Truncate(time.Microsecond)
	if prev := project.TasksLastUpdatedAt; prev != nil && !at.After(*prev) {
		at = prev.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}

	if err := s.projectRepo.TouchTasksUpdatedAt(ctx, project, at); err != nil {
		s.logger.Error("failed to touch project tasks timestamp", "project_id", project.ID, "error", err)
	}
}
