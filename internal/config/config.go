package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPath        string
	RedisHost     string
	RedisPort     string
	CacheDriver   string
	TaskCacheTTL  time.Duration
	SessionSecret string
	GinMode       string
	Port          string
	LogLevel      string

	// Register and login attempts allowed per client IP per window
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// Load reads configuration from the environment. Values from a .env file
// must already be exported by the caller.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "taskuser")
	v.SetDefault("DB_PASSWORD", "taskpassword")
	v.SetDefault("DB_NAME", "task_management")
	v.SetDefault("DB_PATH", "task_management.db")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("CACHE_DRIVER", "memory")
	v.SetDefault("TASK_CACHE_TTL", "60s")
	v.SetDefault("SESSION_SECRET", "default-secret-key-change-me")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("AUTH_RATE_LIMIT", 5)
	v.SetDefault("AUTH_RATE_WINDOW", "1m")

	return &Config{
		DBDriver:      strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:        v.GetString("DB_HOST"),
		DBPort:        v.GetString("DB_PORT"),
		DBUser:        v.GetString("DB_USER"),
		DBPassword:    v.GetString("DB_PASSWORD"),
		DBName:        v.GetString("DB_NAME"),
		DBPath:        v.GetString("DB_PATH"),
		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetString("REDIS_PORT"),
		CacheDriver:   strings.ToLower(v.GetString("CACHE_DRIVER")),
		TaskCacheTTL:  v.GetDuration("TASK_CACHE_TTL"),
		SessionSecret: v.GetString("SESSION_SECRET"),
		GinMode:       v.GetString("GIN_MODE"),
		Port:          v.GetString("PORT"),
		LogLevel:      v.GetString("LOG_LEVEL"),

		AuthRateLimit:  v.GetInt("AUTH_RATE_LIMIT"),
		AuthRateWindow: v.GetDuration("AUTH_RATE_WINDOW"),
	}
}

// RedisAddr returns the host:port pair used by both the session store and the cache.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}
