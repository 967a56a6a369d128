package logger

import (
	"log/slog"
	"os"
)

// Log is the global logger instance. It defaults to a text handler so
// library code can log before Setup runs (or in tests that never call it).
var Log = slog.New(slog.NewTextHandler(os.Stdout, nil))

// Setup configures the global logger for the given environment.
// Production uses JSON output at info level; everything else gets
// human-readable text with debug enabled.
func Setup(env string) {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}

	var handler slog.Handler
	if env == "production" {
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

// With returns a logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return Log.With(args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}
