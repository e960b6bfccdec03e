package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

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

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "hashed"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// countingTaskRepository records how often listings reach the store and
// can be told to fail writes.
type countingTaskRepository struct {
	repository.TaskRepository
	lists     atomic.Int32
	failWrite bool
}

var errWriteFailed = errors.New("write failed")

func (r *countingTaskRepository) List(ctx context.Context, projectID uint64, filter repository.TaskFilter, page utils.PaginationParams) ([]models.Task, int64, error) {
	r.lists.Add(1)
	return r.TaskRepository.List(ctx, projectID, filter, page)
}

func (r *countingTaskRepository) Create(ctx context.Context, projectID uint64, task *models.Task) error {
	if r.failWrite {
		return errWriteFailed
	}
	return r.TaskRepository.Create(ctx, projectID, task)
}

func (r *countingTaskRepository) Update(ctx context.Context, task *models.Task, fields map[string]any) (bool, error) {
	if r.failWrite {
		return false, errWriteFailed
	}
	return r.TaskRepository.Update(ctx, task, fields)
}

func (r *countingTaskRepository) Delete(ctx context.Context, task *models.Task) (bool, error) {
	if r.failWrite {
		return false, errWriteFailed
	}
	return r.TaskRepository.Delete(ctx, task)
}

func ptr[T any](v T) *T {
	return &v
}
