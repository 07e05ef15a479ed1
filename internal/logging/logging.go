package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

type logContextKey string

const (
	loggerKey        = logContextKey("logger")
	correlationIDKey = logContextKey("correlation_id")
)

// New builds the JSON logger used across the console.
func New(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// WithCorrelation starts a command-scoped logger. Every log line of the
// command, and the X-Request-ID of every backend call it makes, carries the
// same correlation id.
func WithCorrelation(ctx context.Context, command string) context.Context {
	correlationID := uuid.NewString()

	commandLogger := LoggerFromContext(ctx).With(
		slog.String("correlation_id", correlationID),
		slog.String("command", command),
	)

	ctx = context.WithValue(ctx, correlationIDKey, correlationID)

	return context.WithValue(ctx, loggerKey, commandLogger)
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}

	return slog.Default()
}

func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)

	return id
}
