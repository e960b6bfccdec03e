package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/repository"
)

// CommentService provides business logic for comment operations.
type CommentService struct {
	commentRepo repository.CommentRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
	}
}

// CreateCommentInput represents parameters to create a comment.
type CreateCommentInput struct {
	Content  string
	AuthorID uint64
}

// UpdateCommentInput holds the fields to change; nil fields are left alone.
type UpdateCommentInput struct {
	Content *string
}

// ListForTask returns the task's comments with their authors.
func (s *CommentService) ListForTask(ctx context.Context, task *models.Task) ([]models.Comment, error) {
	comments, err := s.commentRepo.ListForTask(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Create adds a comment to the task.
func (s *CommentService) Create(ctx context.Context, task *models.Task, input CreateCommentInput) (*models.Comment, error) {
	comment := &models.Comment{
		Content: input.Content,
		UserID:  input.AuthorID,
	}

	if err := s.commentRepo.Create(ctx, task.ID, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	created, err := s.commentRepo.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload comment: %w", err)
	}
	if created == nil {
		return nil, ErrCommentNotFound
	}
	return created, nil
}

// Get returns the comment if it belongs to task, ErrCommentNotFound otherwise.
func (s *CommentService) Get(ctx context.Context, task *models.Task, id uint64) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	if comment == nil || comment.TaskID != task.ID {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

// Update applies input to comment and refreshes it.
func (s *CommentService) Update(ctx context.Context, comment *models.Comment, input UpdateCommentInput) (bool, error) {
	if input.Content == nil {
		return false, nil
	}

	updated, err := s.commentRepo.Update(ctx, comment, map[string]any{"content": *input.Content})
	if err != nil {
		return false, fmt.Errorf("failed to update comment: %w", err)
	}
	if !updated {
		return false, nil
	}

	fresh, err := s.commentRepo.FindByID(ctx, comment.ID)
	if err != nil {
		return true, fmt.Errorf("failed to reload comment: %w", err)
	}
	if fresh != nil {
		*comment = *fresh
	}
	return true, nil
}

// Delete removes the comment.
func (s *CommentService) Delete(ctx context.Context, comment *models.Comment) (bool, error) {
	deleted, err := s.commentRepo.Delete(ctx, comment)
	if err != nil {
		return false, fmt.Errorf("failed to delete comment: %w", err)
	}
	return deleted, nil
}
