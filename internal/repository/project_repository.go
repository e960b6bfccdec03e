package repository

import (
	"context"
	"time"

	"github.com/yukikurage/project-task-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// ListForUser returns the projects owned by the user
func (r *GormProjectRepository) ListForUser(ctx context.Context, userID uint64) ([]models.Project, error) {
	projects := []models.Project{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &project, nil
}

// Create creates a project owned by the user
func (r *GormProjectRepository) Create(ctx context.Context, userID uint64, project *models.Project) error {
	project.UserID = userID
	return r.db.WithContext(ctx).Create(project).Error
}

// Update applies fields to the project
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project, fields map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).Model(project).Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete soft deletes the project, its tasks and their comments in a transaction
func (r *GormProjectRepository) Delete(ctx context.Context, project *models.Project) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(project)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true

		taskIDs := tx.Model(&models.Task{}).Select("id").Where("project_id = ?", project.ID)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		return tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// TouchTasksUpdatedAt sets tasks_last_updated_at without touching updated_at
func (r *GormProjectRepository) TouchTasksUpdatedAt(ctx context.Context, project *models.Project, at time.Time) error {
	if err := r.db.WithContext(ctx).Model(project).UpdateColumn("tasks_last_updated_at", at).Error; err != nil {
		return err
	}
	project.TasksLastUpdatedAt = &at
	return nil
}
