package dto

import (
	"time"

	"github.com/yukikurage/project-task-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID                 uint64     `json:"id"`
	UserID             uint64     `json:"user_id"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	TasksLastUpdatedAt *time.Time `json:"tasks_last_updated_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:                 project.ID,
		UserID:             project.UserID,
		Name:               project.Name,
		Description:        project.Description,
		TasksLastUpdatedAt: project.TasksLastUpdatedAt,
		CreatedAt:          project.CreatedAt,
		UpdatedAt:          project.UpdatedAt,
	}
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		dtos[i] = ToProjectDTO(project)
	}
	return dtos
}
