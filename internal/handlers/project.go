package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/dto"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/middleware"
	"github.com/yukikurage/project-task-api/internal/services"
)

// ProjectHandler serves the project endpoints. Loading and authorizing the
// project is done by middleware.RequireProjectAccess.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

type createProjectRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

type updateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
}

// ListProjects returns the projects owned by the current user
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projects, err := h.projectService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": dto.ToProjectDTOs(projects)})
}

// CreateProject creates a project owned by the current user
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), userID, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// GetProject returns the project
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject changes the project's name or description
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if _, err := h.projectService.Update(c.Request.Context(), project, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	}); err != nil {
		respondServiceError(c, err, "Failed to update project")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject deletes the project with its tasks and comments
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	if _, err := h.projectService.Delete(c.Request.Context(), project); err != nil {
		respondServiceError(c, err, "Failed to delete project")
		return
	}

	c.Status(http.StatusNoContent)
}
