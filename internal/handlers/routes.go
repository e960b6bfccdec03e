package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/middleware"
	"github.com/yukikurage/project-task-api/internal/policy"
	"github.com/yukikurage/project-task-api/internal/services"
)

// Handlers bundles the HTTP handlers and what the route middleware needs.
type Handlers struct {
	Auth          *AuthHandler
	Projects      *ProjectHandler
	Tasks         *TaskHandler
	Comments      *CommentHandler
	Notifications *NotificationHandler

	ProjectService *services.ProjectService
	TaskService    *services.TaskService
	Gate           policy.Authorizer

	// AuthLimiter throttles register and login per client IP. Nil disables it.
	AuthLimiter *middleware.RateLimiter
}

// NewRouter builds the engine with recovery, request logging and the
// session store, and mounts the API.
func NewRouter(store sessions.Store, logger *slog.Logger, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger),
		sessions.Sessions(constants.SessionCookieName, store),
	)
	RegisterRoutes(r, h)
	return r
}

// RegisterRoutes mounts the API on r. Session middleware must already be
// installed.
func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Project Task API is running",
		})
	})

	projectAccess := func(action policy.Action) gin.HandlerFunc {
		return middleware.RequireProjectAccess(h.ProjectService, h.Gate, action)
	}

	api := r.Group("/api")
	{
		// Auth routes (public)
		public := api.Group("")
		if h.AuthLimiter != nil {
			public.Use(middleware.Throttle(h.AuthLimiter))
		}
		{
			public.POST("/register", h.Auth.Register)
			public.POST("/login", h.Auth.Login)
		}

		authed := api.Group("")
		authed.Use(middleware.RequireAuth())
		{
			authed.POST("/logout", h.Auth.Logout)
			authed.GET("/user", h.Auth.GetCurrentUser)

			if h.Notifications != nil {
				authed.GET("/notifications/ws", h.Notifications.Stream)
			}
		}

		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.GET("", h.Projects.ListProjects)
			projects.POST("", h.Projects.CreateProject)
			projects.GET("/:id", projectAccess(policy.ActionView), h.Projects.GetProject)
			projects.PUT("/:id", projectAccess(policy.ActionUpdate), h.Projects.UpdateProject)
			projects.PATCH("/:id", projectAccess(policy.ActionUpdate), h.Projects.UpdateProject)
			projects.DELETE("/:id", projectAccess(policy.ActionDelete), h.Projects.DeleteProject)

			projects.GET("/:id/tasks", projectAccess(policy.ActionView), h.Tasks.ListTasks)
			projects.POST("/:id/tasks", projectAccess(policy.ActionUpdate), h.Tasks.CreateTask)
			projects.GET("/:id/tasks/:task_id", projectAccess(policy.ActionView), h.Tasks.GetTask)
			projects.PUT("/:id/tasks/:task_id", projectAccess(policy.ActionUpdate), h.Tasks.UpdateTask)
			projects.PATCH("/:id/tasks/:task_id", projectAccess(policy.ActionUpdate), h.Tasks.UpdateTask)
			projects.DELETE("/:id/tasks/:task_id", projectAccess(policy.ActionUpdate), h.Tasks.DeleteTask)
		}

		comments := api.Group("/tasks/:id/comments")
		comments.Use(middleware.RequireAuth(), middleware.RequireTaskAccess(h.TaskService, h.Gate, policy.ActionView))
		{
			comments.GET("", h.Comments.ListComments)
			comments.POST("", h.Comments.CreateComment)
			comments.GET("/:comment_id", h.Comments.GetComment)
			comments.PUT("/:comment_id", h.Comments.UpdateComment)
			comments.PATCH("/:comment_id", h.Comments.UpdateComment)
			comments.DELETE("/:comment_id", h.Comments.DeleteComment)
		}
	}
}
