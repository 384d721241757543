package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"page-pipeline/domain"
	"page-pipeline/driver"
)

// TaskRepository implementation.
type taskRepository struct {
	db     driver.DB
	logger *slog.Logger
}

// NewTaskRepository creates a new refresh task repository.
func NewTaskRepository(db driver.DB, logger *slog.Logger) TaskRepository {
	return &taskRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a pending task for a page.
func (r *taskRepository) Create(ctx context.Context, pageID int64, scheduledAt time.Time) error {
	r.logger.InfoContext(ctx, "creating refresh task", "page_id", pageID, "scheduled_at", scheduledAt)

	if err := driver.CreateRefreshTask(ctx, r.db, pageID, scheduledAt); err != nil {
		r.logger.ErrorContext(ctx, "failed to create refresh task", "error", err, "page_id", pageID)
		return fmt.Errorf("failed to create refresh task: %w", err)
	}

	return nil
}

// FindLatest returns the page's most recent task.
func (r *taskRepository) FindLatest(ctx context.Context, pageID int64) (*domain.RefreshTask, error) {
	task, err := driver.GetLatestTask(ctx, r.db, pageID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, err
		}

		r.logger.ErrorContext(ctx, "failed to find latest task", "error", err, "page_id", pageID)

		return nil, fmt.Errorf("failed to find latest task: %w", err)
	}

	return task, nil
}

// SetLatestStatus updates the page's most recent non-completed task.
func (r *taskRepository) SetLatestStatus(ctx context.Context, pageID int64, status domain.TaskStatus) error {
	if err := driver.SetLatestTaskStatus(ctx, r.db, pageID, status); err != nil {
		r.logger.ErrorContext(ctx, "failed to set task status", "error", err, "page_id", pageID, "status", status)
		return fmt.Errorf("failed to set task status: %w", err)
	}

	return nil
}
