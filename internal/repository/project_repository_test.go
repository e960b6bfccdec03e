package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-task-api/internal/models"
)

func TestProjectRepository_ListForUserIsScoped(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	createProject(t, db, alice.ID, "A1")
	createProject(t, db, bob.ID, "B1")
	createProject(t, db, alice.ID, "A2")

	projects, err := repo.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "A1", projects[0].Name)
	assert.Equal(t, "A2", projects[1].Name)
}

func TestProjectRepository_CreateAssignsOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db)
	owner := createUser(t, db, "owner")

	project := &models.Project{Name: "Launch"}
	require.NoError(t, repo.Create(context.Background(), owner.ID, project))

	found, err := repo.FindByID(context.Background(), project.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, owner.ID, found.UserID)
	assert.Nil(t, found.TasksLastUpdatedAt)
}

func TestProjectRepository_TouchTasksUpdatedAtKeepsUpdatedAt(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	project := createProject(t, db, owner.ID, "Launch")
	before := project.UpdatedAt

	at := time.Date(2025, 1, 2, 3, 4, 5, 6000, time.UTC)
	require.NoError(t, repo.TouchTasksUpdatedAt(ctx, project, at))
	require.NotNil(t, project.TasksLastUpdatedAt)

	found, err := repo.FindByID(ctx, project.ID)
	require.NoError(t, err)
	require.NotNil(t, found.TasksLastUpdatedAt)
	assert.True(t, at.Equal(*found.TasksLastUpdatedAt))
	assert.True(t, before.Equal(found.UpdatedAt))
}

func TestProjectRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	project := createProject(t, db, owner.ID, "Launch")
	task := createTask(t, db, project.ID, "t", "", models.TaskStatusTodo)
	comment := &models.Comment{TaskID: task.ID, UserID: owner.ID, Content: "c"}
	require.NoError(t, db.Omit("Task", "User").Create(comment).Error)

	ok, err := repo.Delete(ctx, project)
	require.NoError(t, err)
	assert.True(t, ok)

	var tasks, comments int64
	require.NoError(t, db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&tasks).Error)
	require.NoError(t, db.Model(&models.Comment{}).Where("task_id = ?", task.ID).Count(&comments).Error)
	assert.Zero(t, tasks)
	assert.Zero(t, comments)

	found, err := repo.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	ok, err = repo.Delete(ctx, project)
	require.NoError(t, err)
	assert.False(t, ok)
}
