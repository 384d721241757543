// ABOUTME: This file provides the slog-based JSON logger for the page-pipeline service
// ABOUTME: Output format matches the platform log forwarder (lowercase level, msg/time keys)
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID stores a request ID in the context for downstream logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFrom extracts the request ID from the context, if any.
func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}

	return ""
}

// New creates a JSON slog logger pre-configured with the service name.
// Level is controlled by LOG_LEVEL (debug|info|warn|error, default info).
func New(serviceName string) *slog.Logger {
	options := &slog.HandlerOptions{
		Level:     levelFromEnv(),
		AddSource: false,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if level, ok := a.Value.Any().(slog.Level); ok {
					return slog.Attr{Key: "level", Value: slog.StringValue(strings.ToLower(level.String()))}
				}
			}

			return a
		},
	}

	handler := slog.NewJSONHandler(os.Stdout, options)

	return slog.New(handler).With("service", serviceName, "version", "1.0.0")
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
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
