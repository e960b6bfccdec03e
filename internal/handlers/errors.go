package handlers

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/services"
)

// respondServiceError maps a service error onto an API error response.
// Unexpected errors are logged and reported as 500 with message.
func respondServiceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrCommentNotFound):
		apierrors.NotFound(c, "Comment not found")
	default:
		slog.Error(message, "path", c.FullPath(), "error", err)
		apierrors.InternalError(c, message)
	}
}

// respondBindError reports a request that failed validation.
func respondBindError(c *gin.Context, err error) {
	apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
}
