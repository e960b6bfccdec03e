package repository

import (
	"context"

	"github.com/yukikurage/project-task-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// ListForTask returns the task's comments with their authors, oldest first
func (r *GormCommentRepository) ListForTask(ctx context.Context, taskID uint64) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("task_id = ?", taskID).
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// FindByID finds a comment with its author, task and the task's project
func (r *GormCommentRepository) FindByID(ctx context.Context, id uint64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Task.Project").
		First(&comment, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &comment, nil
}

// Create creates a comment on the task
func (r *GormCommentRepository) Create(ctx context.Context, taskID uint64, comment *models.Comment) error {
	comment.TaskID = taskID
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

// Update applies fields to the comment
func (r *GormCommentRepository) Update(ctx context.Context, comment *models.Comment, fields map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).Model(comment).Omit(clause.Associations).Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete soft deletes the comment
func (r *GormCommentRepository) Delete(ctx context.Context, comment *models.Comment) (bool, error) {
	result := r.db.WithContext(ctx).Delete(comment)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
