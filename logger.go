package addrsearch

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with engine-specific helpers.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		})),
	}
}

// WithVersion adds a snapshot version field to the logger.
func (l *Logger) WithVersion(version string) *Logger {
	return &Logger{
		Logger: l.Logger.With("version", version),
	}
}

// LogBuild logs the outcome of a fetch+decode+build sequence.
func (l *Logger) LogBuild(version string, records int, duration time.Duration, degraded bool, err error) {
	if err != nil {
		l.Error("index build failed",
			"version", version,
			"error", err,
		)
		return
	}
	if degraded {
		l.Warn("index built from previous version, serving degraded",
			"version", version,
			"records", records,
			"duration", duration,
		)
		return
	}
	l.Info("index built",
		"version", version,
		"records", records,
		"duration", duration,
	)
}

// LogQuery logs a query outcome.
func (l *Logger) LogQuery(normalized string, results int, duration time.Duration, err error) {
	if err != nil {
		l.Error("query degraded to empty results",
			"query", normalized,
			"error", err,
		)
		return
	}
	l.Debug("query completed",
		"query", normalized,
		"results", results,
		"duration", duration,
	)
}
