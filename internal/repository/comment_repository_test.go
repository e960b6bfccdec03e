package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-task-api/internal/models"
)

func TestCommentRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	project := createProject(t, db, owner.ID, "Launch")
	task := createTask(t, db, project.ID, "t", "", models.TaskStatusTodo)

	comment := &models.Comment{UserID: owner.ID, Content: "first"}
	require.NoError(t, repo.Create(ctx, task.ID, comment))
	assert.Equal(t, task.ID, comment.TaskID)

	found, err := repo.FindByID(ctx, comment.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "owner", found.User.Username)
	assert.Equal(t, owner.ID, found.Task.Project.UserID)

	ok, err := repo.Update(ctx, found, map[string]any{"content": "edited"})
	require.NoError(t, err)
	assert.True(t, ok)

	comments, err := repo.ListForTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "edited", comments[0].Content)
	assert.Equal(t, "owner", comments[0].User.Username)

	ok, err = repo.Delete(ctx, found)
	require.NoError(t, err)
	assert.True(t, ok)

	missing, err := repo.FindByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
