package handler

import (
	"context"
	"fmt"
	"log/slog"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler implementation.
type healthHandler struct {
	db     pinger
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler. db may be any pool
// exposing Ping; the fast cache tier is deliberately not checked, since
// its loss is not a health failure.
func NewHealthHandler(db pinger, logger *slog.Logger) HealthHandler {
	return &healthHandler{
		db:     db,
		logger: logger,
	}
}

// CheckHealth verifies the persistent store is reachable.
func (h *healthHandler) CheckHealth(ctx context.Context) error {
	if h.db == nil {
		return fmt.Errorf("database pool not configured")
	}

	if err := h.db.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "health check failed", "error", err)
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}
