package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/cache"
	"github.com/yukikurage/project-task-api/internal/config"
	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/handlers"
	"github.com/yukikurage/project-task-api/internal/logging"
	"github.com/yukikurage/project-task-api/internal/middleware"
	"github.com/yukikurage/project-task-api/internal/notify"
	"github.com/yukikurage/project-task-api/internal/policy"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/services"
	"gorm.io/gorm"
)

const (
	shutdownTimeout = 5 * time.Second
	sweepInterval   = time.Minute
)

func serve(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer closeDB(db)

	gin.SetMode(cfg.GinMode)

	// Setup session store with Redis
	store, err := redisStore.NewStore(
		10,                        // Redis pool size
		"tcp",                     // network type
		cfg.RedisAddr(),           // Redis address from config
		"",                        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		return fmt.Errorf("create session store: %w", err)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	listCache, closeCache := newTaskListCache(ctx, cfg)
	defer closeCache()

	publisher := notify.NewMemoryPublisher(notify.WithLogger(logging.Logger))
	defer publisher.Close()

	projectRepo := repository.NewProjectRepository(db)
	gate := policy.NewGate()

	authService := services.NewAuthService(repository.NewUserRepository(db))
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(
		repository.NewTaskRepository(db),
		projectRepo,
		listCache,
		publisher,
		services.WithTaskLogger(logging.Logger),
	)
	commentService := services.NewCommentService(repository.NewCommentRepository(db))

	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	go sweepEvery(ctx, cfg.AuthRateWindow, authLimiter.Sweep, "idle rate limit clients removed")

	router := handlers.NewRouter(store, logging.Logger, handlers.Handlers{
		Auth:           handlers.NewAuthHandler(authService),
		Projects:       handlers.NewProjectHandler(projectService),
		Tasks:          handlers.NewTaskHandler(taskService, gate),
		Comments:       handlers.NewCommentHandler(commentService, gate),
		Notifications:  handlers.NewNotificationHandler(publisher, logging.Logger),
		ProjectService: projectService,
		TaskService:    taskService,
		Gate:           gate,
		AuthLimiter:    authLimiter,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting",
			"addr", server.Addr,
			"db_driver", cfg.DBDriver,
			"cache_driver", cfg.CacheDriver,
			"cache_ttl", listCache.TTL(),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// newTaskListCache builds the task listing cache on the configured backend.
// The returned func releases it.
func newTaskListCache(ctx context.Context, cfg *config.Config) (*cache.Cache, func()) {
	ttl := cfg.TaskCacheTTL
	if ttl <= 0 {
		ttl = constants.DefaultTaskCacheTTL
	}

	switch cfg.CacheDriver {
	case "redis":
		store := cache.NewRedisStore(cfg.RedisAddr(), cache.WithPrefix(constants.CachePrefix))
		return cache.New(store, ttl, logging.Logger), func() {
			if err := store.Close(); err != nil {
				slog.Warn("failed to close cache store", "error", err)
			}
		}
	case "none":
		return cache.New(nil, ttl, logging.Logger), func() {}
	default:
		store := cache.NewMemoryStore()
		go sweepEvery(ctx, sweepInterval, store.Sweep, "expired cache entries removed")
		return cache.New(store, ttl, logging.Logger), func() {}
	}
}

// sweepEvery calls sweep on each tick until ctx is done.
func sweepEvery(ctx context.Context, interval time.Duration, sweep func() int, msg string) {
	if interval <= 0 {
		interval = sweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sweep(); n > 0 {
				slog.Debug(msg, "count", n)
			}
		}
	}
}
