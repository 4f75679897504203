package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type implLogger struct {
	logger *slog.Logger
	level  slog.Level
}

// New creates a new Logger writing text records to stdout
func New(level string) Logger {
	return NewWithFormat(level, "text", os.Stdout)
}

// NewWithFormat creates a Logger with the given level and format ("json" or "text").
func NewWithFormat(level, format string, w io.Writer) Logger {
	lvl := parseLevel(level)
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	if strings.ToLower(format) == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	return &implLogger{
		logger: slog.New(h),
		level:  lvl,
	}
}

// Discard returns a Logger that drops every record. Useful in tests.
func Discard() Logger {
	return NewWithFormat("error", "text", io.Discard)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *implLogger) shouldLog(level slog.Level) bool {
	return level >= l.level
}

func (l *implLogger) log(ctx context.Context, level slog.Level, msg string, args ...interface{}) {
	if !l.shouldLog(level) {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.logger.Log(ctx, level, msg)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, slog.LevelDebug, msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, slog.LevelInfo, msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, slog.LevelWarn, msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, slog.LevelError, msg, args...)
}
