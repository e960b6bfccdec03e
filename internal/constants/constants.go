package constants

import "time"

// Session and context keys
const (
	SessionCookieName = "task_session"
	ContextKeyUserID  = "user_id"
	ContextKeyProject = "project"
	ContextKeyTask    = "task"
	RequestIDHeader   = "X-Request-ID"
)

// Authentication
const (
	MinPasswordLength = 8
)

// Task listing
const (
	MinPage             = 1
	TaskPageSize        = 10
	DefaultTaskCacheTTL = 60 * time.Second
	DueDateLayout       = "2006-01-02"
	CachePrefix         = "project_task_api_cache:"
)
