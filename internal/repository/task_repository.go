package repository

import (
	"context"

	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// List retrieves one page of the project's tasks ordered by ID
func (r *GormTaskRepository) List(ctx context.Context, projectID uint64, filter TaskFilter, page utils.PaginationParams) ([]models.Task, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{}).Where("tasks.project_id = ?", projectID)

	// Apply filters
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.DueDate != nil {
		query = query.Where("tasks.due_date = ?", *filter.DueDate)
	}
	if filter.Search != nil {
		query = database.Search(*filter.Search, "tasks.title", "tasks.description")(query)
	}

	// Fork the statement so counting does not leak into the page query
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tasks := []models.Task{}
	if err := query.Order("tasks.id ASC").Scopes(database.Paginate(page)).Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// FindByID finds a task by ID with its project loaded
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Preload("Project").First(&task, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &task, nil
}

// Create creates a task in the project
func (r *GormTaskRepository) Create(ctx context.Context, projectID uint64, task *models.Task) error {
	task.ProjectID = projectID
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

// Update applies fields to the task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task, fields map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).Model(task).Omit(clause.Associations).Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete soft deletes the task and its comments in a transaction
func (r *GormTaskRepository) Delete(ctx context.Context, task *models.Task) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(task)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true

		return tx.Where("task_id = ?", task.ID).Delete(&models.Comment{}).Error
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
