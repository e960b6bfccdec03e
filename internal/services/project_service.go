package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/repository"
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
}

// UpdateProjectInput holds the fields to change; nil fields are left alone.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

func (in UpdateProjectInput) fields() map[string]any {
	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	return fields
}

// ListForUser returns the projects owned by the user.
func (s *ProjectService) ListForUser(ctx context.Context, userID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Create creates a project owned by the user.
func (s *ProjectService) Create(ctx context.Context, userID uint64, input CreateProjectInput) (*models.Project, error) {
	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
	}

	if err := s.projectRepo.Create(ctx, userID, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// Get returns the project or ErrProjectNotFound.
func (s *ProjectService) Get(ctx context.Context, id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

// Update applies input to project and refreshes it. It reports whether
// anything was written.
func (s *ProjectService) Update(ctx context.Context, project *models.Project, input UpdateProjectInput) (bool, error) {
	fields := input.fields()
	if len(fields) == 0 {
		return false, nil
	}

	updated, err := s.projectRepo.Update(ctx, project, fields)
	if err != nil {
		return false, fmt.Errorf("failed to update project: %w", err)
	}
	if !updated {
		return false, nil
	}

	fresh, err := s.projectRepo.FindByID(ctx, project.ID)
	if err != nil {
		return true, fmt.Errorf("failed to reload project: %w", err)
	}
	if fresh != nil {
		*project = *fresh
	}
	return true, nil
}

// Delete removes the project together with its tasks and comments.
func (s *ProjectService) Delete(ctx context.Context, project *models.Project) (bool, error) {
	deleted, err := s.projectRepo.Delete(ctx, project)
	if err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}
	return deleted, nil
}
