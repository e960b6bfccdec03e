package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/repository"
)

func TestProjectService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	owner := createUser(t, db, "owner")
	service := NewProjectService(repository.NewProjectRepository(db))

	project, err := service.Create(ctx, owner.ID, CreateProjectInput{Name: "Alpha", Description: "first"})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, project.UserID)

	updated, err := service.Update(ctx, project, UpdateProjectInput{})
	require.NoError(t, err)
	assert.False(t, updated, "nothing to change")

	name := "Alpha v2"
	updated, err = service.Update(ctx, project, UpdateProjectInput{Name: &name})
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, "Alpha v2", project.Name)
	assert.Equal(t, "first", project.Description)

	projects, err := service.ListForUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, projects, 1)

	deleted, err := service.Delete(ctx, project)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = service.Get(ctx, project.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	deleted, err = service.Delete(ctx, project)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCommentService_ScopedToTask(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	owner := createUser(t, db, "owner")
	project := &models.Project{UserID: owner.ID, Name: "Alpha"}
	require.NoError(t, db.Create(project).Error)
	first := &models.Task{ProjectID: project.ID, Title: "first", Status: models.TaskStatusTodo}
	second := &models.Task{ProjectID: project.ID, Title: "second", Status: models.TaskStatusTodo}
	require.NoError(t, db.Omit("Project").Create(first).Error)
	require.NoError(t, db.Omit("Project").Create(second).Error)

	service := NewCommentService(repository.NewCommentRepository(db))

	comment, err := service.Create(ctx, first, CreateCommentInput{Content: "hello", AuthorID: owner.ID})
	require.NoError(t, err)
	assert.Equal(t, "owner", comment.User.Username)
	assert.Equal(t, project.ID, comment.Task.Project.ID)

	_, err = service.Get(ctx, second, comment.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	content := "edited"
	updated, err := service.Update(ctx, comment, UpdateCommentInput{Content: &content})
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, "edited", comment.Content)

	comments, err := service.ListForTask(ctx, first)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "edited", comments[0].Content)

	deleted, err := service.Delete(ctx, comment)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = service.Get(ctx, first, comment.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}
