package repository

import (
	"context"
	"time"

	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/utils"
)

// Repositories only translate calls into queries. A FindByID miss returns
// (nil, nil); store errors are returned unchanged. Update and Delete report
// whether any row was affected.

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// ListForUser returns the projects owned by the user
	ListForUser(ctx context.Context, userID uint64) ([]models.Project, error)

	// FindByID finds a project by ID
	FindByID(ctx context.Context, id uint64) (*models.Project, error)

	// Create creates a project owned by the user
	Create(ctx context.Context, userID uint64, project *models.Project) error

	// Update applies fields to the project
	Update(ctx context.Context, project *models.Project, fields map[string]any) (bool, error)

	// Delete soft deletes the project together with its tasks and comments
	Delete(ctx context.Context, project *models.Project) (bool, error)

	// TouchTasksUpdatedAt records that a task of the project changed
	TouchTasksUpdatedAt(ctx context.Context, project *models.Project, at time.Time) error
}

// TaskFilter holds the optional predicates for listing tasks. A nil field
// places no constraint on the result.
type TaskFilter struct {
	Status  *models.TaskStatus
	DueDate *time.Time
	Search  *string
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// List returns one page of the project's tasks matching filter and the total match count
	List(ctx context.Context, projectID uint64, filter TaskFilter, page utils.PaginationParams) ([]models.Task, int64, error)

	// FindByID finds a task by ID with its project loaded
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// Create creates a task in the project
	Create(ctx context.Context, projectID uint64, task *models.Task) error

	// Update applies fields to the task
	Update(ctx context.Context, task *models.Task, fields map[string]any) (bool, error)

	// Delete soft deletes the task and its comments
	Delete(ctx context.Context, task *models.Task) (bool, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// ListForTask returns the task's comments with their authors, oldest first
	ListForTask(ctx context.Context, taskID uint64) ([]models.Comment, error)

	// FindByID finds a comment by ID with its author and task (and the task's project) loaded
	FindByID(ctx context.Context, id uint64) (*models.Comment, error)

	// Create creates a comment on the task
	Create(ctx context.Context, taskID uint64, comment *models.Comment) error

	// Update applies fields to the comment
	Update(ctx context.Context, comment *models.Comment, fields map[string]any) (bool, error)

	// Delete soft deletes the comment
	Delete(ctx context.Context, comment *models.Comment) (bool, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}
