package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.Models...))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "hashed"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createProject(t *testing.T, db *gorm.DB, ownerID uint64, name string) *models.Project {
	t.Helper()
	project := &models.Project{UserID: ownerID, Name: name}
	require.NoError(t, db.Create(project).Error)
	return project
}

func createTask(t *testing.T, db *gorm.DB, projectID uint64, title, description string, status models.TaskStatus) *models.Task {
	t.Helper()
	task := &models.Task{ProjectID: projectID, Title: title, Description: description, Status: status}
	require.NoError(t, db.Omit("Project").Create(task).Error)
	return task
}
