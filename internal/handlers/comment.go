package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/dto"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/middleware"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/policy"
	"github.com/yukikurage/project-task-api/internal/services"
)

// CommentHandler serves the comment endpoints nested under a task. The task
// has already been loaded and its view permission checked by
// middleware.RequireTaskAccess.
type CommentHandler struct {
	commentService *services.CommentService
	gate           policy.Authorizer
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService, gate policy.Authorizer) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		gate:           gate,
	}
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListComments returns the task's comments, oldest first
func (h *CommentHandler) ListComments(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	comments, err := h.commentService.ListForTask(c.Request.Context(), task)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": dto.ToCommentDTOs(comments)})
}

// CreateComment adds a comment by the current user to the task
func (h *CommentHandler) CreateComment(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}
	userID, _ := middleware.GetUserID(c)

	if !h.gate.Can(userID, policy.ActionCreate, &models.Comment{TaskID: task.ID, Task: *task}) {
		apierrors.Forbidden(c, "")
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), task, services.CreateCommentInput{
		Content:  req.Content,
		AuthorID: userID,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to create comment")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// GetComment returns a comment of the task
func (h *CommentHandler) GetComment(c *gin.Context) {
	comment, ok := h.authorizeComment(c, policy.ActionView)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// UpdateComment edits a comment; only its author may do so
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	comment, ok := h.authorizeComment(c, policy.ActionUpdate)
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if _, err := h.commentService.Update(c.Request.Context(), comment, services.UpdateCommentInput{
		Content: &req.Content,
	}); err != nil {
		respondServiceError(c, err, "Failed to update comment")
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// DeleteComment removes a comment; only its author may do so
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	comment, ok := h.authorizeComment(c, policy.ActionDelete)
	if !ok {
		return
	}

	if _, err := h.commentService.Delete(c.Request.Context(), comment); err != nil {
		respondServiceError(c, err, "Failed to delete comment")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) authorizeComment(c *gin.Context, action policy.Action) (*models.Comment, bool) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return nil, false
	}
	userID, _ := middleware.GetUserID(c)

	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid comment ID")
		return nil, false
	}

	comment, err := h.commentService.Get(c.Request.Context(), task, commentID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch comment")
		return nil, false
	}

	if !h.gate.Can(userID, action, comment) {
		apierrors.Forbidden(c, "")
		return nil, false
	}

	return comment, true
}
