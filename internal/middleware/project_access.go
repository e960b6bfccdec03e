package middleware

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/constants"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/policy"
	"github.com/yukikurage/project-task-api/internal/services"
)

// RequireProjectAccess loads the project named by the :id parameter and
// checks that the current user may perform action on it. The project is
// stored in the context for GetProject.
func RequireProjectAccess(projects *services.ProjectService, gate policy.Authorizer, action policy.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		project, err := projects.Get(c.Request.Context(), projectID)
		if err != nil {
			if errors.Is(err, services.ErrProjectNotFound) {
				apierrors.NotFound(c, "Project not found")
				return
			}
			slog.Error("failed to load project", "project_id", projectID, "error", err)
			apierrors.InternalError(c, "Failed to load project")
			return
		}

		if !gate.Can(userID, action, project) {
			apierrors.Forbidden(c, "")
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

// GetProject retrieves the project loaded by RequireProjectAccess
func GetProject(c *gin.Context) (*models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return nil, false
	}
	project, ok := value.(*models.Project)
	return project, ok
}
