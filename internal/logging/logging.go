package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

// Logger is the application-wide slog instance
var Logger = slog.Default()

// Init configures the default slog logger. JSON output is used in release
// mode, human readable text otherwise.
func Init(level string, json bool) *slog.Logger {
	return InitWithWriter(os.Stdout, level, json)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(w io.Writer, level string, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	// Route the standard log package (used by gin's debug output) through the same writer
	log.SetOutput(w)

	return Logger
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
