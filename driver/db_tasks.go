package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"page-pipeline/domain"

	"github.com/jackc/pgx/v5"
)

// CreateRefreshTask inserts a pending refresh task for a page.
func CreateRefreshTask(ctx context.Context, db DB, pageID int64, scheduledAt time.Time) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	query := `
		INSERT INTO refresh_tasks (page_id, scheduled_at, status, created_at)
		VALUES ($1, $2, 'pending', now())
	`

	_, err := db.Exec(ctx, query, pageID, scheduledAt)

	return err
}

// GetLatestTask returns the most recent refresh task for a page, or
// ErrTaskNotFound when the page has none.
func GetLatestTask(ctx context.Context, db DB, pageID int64) (*domain.RefreshTask, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `
		SELECT id, page_id, scheduled_at, status, created_at
		FROM refresh_tasks
		WHERE page_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var task domain.RefreshTask

	err := db.QueryRow(ctx, query, pageID).Scan(
		&task.ID,
		&task.PageID,
		&task.ScheduledAt,
		&task.Status,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}

		return nil, err
	}

	return &task, nil
}

// SetLatestTaskStatus updates the status of the page's most recent
// non-completed refresh task. Missing tasks are not an error: a page may
// legitimately predate task tracking.
func SetLatestTaskStatus(ctx context.Context, db DB, pageID int64, status domain.TaskStatus) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	query := `
		UPDATE refresh_tasks
		SET status = $2
		WHERE id = (
			SELECT id FROM refresh_tasks
			WHERE page_id = $1 AND status <> 'completed'
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		)
	`

	_, err := db.Exec(ctx, query, pageID, status)

	return err
}
