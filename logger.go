package strknn

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with strknn-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithK adds a k (neighbor count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogUpload logs an upload operation.
func (l *Logger) LogUpload(ctx context.Context, count, size int, err error) {
	log := l.WithCount(count)
	if err != nil {
		log.ErrorContext(ctx, "upload failed",
			"error", err,
		)
	} else {
		log.DebugContext(ctx, "upload completed",
			"size", size,
		)
	}
}

// LogQuery logs a query.
func (l *Logger) LogQuery(ctx context.Context, k int, orderSensitive bool, results, scored, pruned int, err error) {
	log := l.WithK(k)
	if err != nil {
		log.WarnContext(ctx, "query failed",
			"order_sensitive", orderSensitive,
			"error", err,
		)
	} else {
		log.DebugContext(ctx, "query completed",
			"order_sensitive", orderSensitive,
			"results", results,
			"scored", scored,
			"pruned", pruned,
		)
	}
}

// LogCacheHit logs a query answered from the result cache.
func (l *Logger) LogCacheHit(ctx context.Context, k int, orderSensitive bool, results int) {
	l.WithK(k).DebugContext(ctx, "query served from cache",
		"order_sensitive", orderSensitive,
		"results", results,
	)
}
