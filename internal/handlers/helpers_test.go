package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-task-api/internal/cache"
	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/dto"
	"github.com/yukikurage/project-task-api/internal/middleware"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/notify"
	"github.com/yukikurage/project-task-api/internal/policy"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/services"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// countingTaskRepository counts listings that reach the database.
type countingTaskRepository struct {
	repository.TaskRepository
	lists atomic.Int32
}

func (r *countingTaskRepository) List(ctx context.Context, projectID uint64, filter repository.TaskFilter, page utils.PaginationParams) ([]models.Task, int64, error) {
	r.lists.Add(1)
	return r.TaskRepository.List(ctx, projectID, filter, page)
}

type testEnv struct {
	db        *gorm.DB
	router    *gin.Engine
	tasks     *countingTaskRepository
	publisher *notify.MemoryPublisher
}

type envOption func(*Handlers)

func withAuthLimiter(limiter *middleware.RateLimiter) envOption {
	return func(h *Handlers) {
		h.AuthLimiter = limiter
	}
}

func setupTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))

	tasks := &countingTaskRepository{TaskRepository: repository.NewTaskRepository(db)}
	projectRepo := repository.NewProjectRepository(db)
	publisher := notify.NewMemoryPublisher(notify.WithLogger(discardLogger))
	t.Cleanup(publisher.Close)

	gate := policy.NewGate()
	authService := services.NewAuthService(repository.NewUserRepository(db))
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(
		tasks,
		projectRepo,
		cache.New(cache.NewMemoryStore(), time.Minute, discardLogger),
		publisher,
		services.WithTaskLogger(discardLogger),
	)
	commentService := services.NewCommentService(repository.NewCommentRepository(db))

	h := Handlers{
		Auth:           NewAuthHandler(authService),
		Projects:       NewProjectHandler(projectService),
		Tasks:          NewTaskHandler(taskService, gate),
		Comments:       NewCommentHandler(commentService, gate),
		Notifications:  NewNotificationHandler(publisher, discardLogger),
		ProjectService: projectService,
		TaskService:    taskService,
		Gate:           gate,
		AuthLimiter:    middleware.NewRateLimiter(1000, time.Minute),
	}
	for _, opt := range opts {
		opt(&h)
	}
	router := NewRouter(cookie.NewStore([]byte("secret")), discardLogger, h)

	return &testEnv{
		db:        db,
		router:    router,
		tasks:     tasks,
		publisher: publisher,
	}
}

// client issues requests carrying the session cookies it was given.
type client struct {
	t       *testing.T
	env     *testEnv
	userID  uint64
	cookies []*http.Cookie
}

func (e *testEnv) anonymous(t *testing.T) *client {
	return &client{t: t, env: e}
}

// signIn registers username and logs in.
func (e *testEnv) signIn(t *testing.T, username string) *client {
	t.Helper()
	c := e.anonymous(t)
	credentials := map[string]string{"username": username, "password": "supersecret"}

	w := c.do(http.MethodPost, "/api/register", credentials)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = c.do(http.MethodPost, "/api/login", credentials)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var user dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	c.userID = user.ID
	c.cookies = w.Result().Cookies()
	require.NotEmpty(t, c.cookies, "expected session cookie to be set")
	return c
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.env.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
