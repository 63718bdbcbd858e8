package meshopt

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with optimizer-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithModel adds a model name field to the logger.
func (l *Logger) WithModel(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("model", name),
	}
}

// LogDedup logs a vertex merge pass.
func (l *Logger) LogDedup(ctx context.Context, before, after int, epsilon float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "vertex merge failed",
			"vertices_in", before,
			"epsilon", epsilon,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "vertex merge completed",
			"vertices_in", before,
			"vertices_out", after,
			"epsilon", epsilon,
		)
	}
}

// LogLevelBuild logs a level-set build.
func (l *Logger) LogLevelBuild(ctx context.Context, ratios []float64, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "level build failed",
			"ratios", ratios,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "level build completed",
			"levels", len(ratios),
			"duration", duration,
		)
	}
}

// LogSave logs a document save.
func (l *Logger) LogSave(ctx context.Context, name string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "document save failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "document saved",
			"name", name,
			"bytes", size,
		)
	}
}

// LogLoad logs a document load.
func (l *Logger) LogLoad(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "document load failed",
			"name", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "document loaded",
			"name", name,
		)
	}
}
