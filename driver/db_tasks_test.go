package driver

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"page-pipeline/domain"
)

func TestCreateRefreshTask(t *testing.T) {
	ctx := context.Background()

	t.Run("should insert a pending task", func(t *testing.T) {
		mock := newMockDB(t)
		scheduledAt := time.Now().Add(168 * time.Hour)

		mock.ExpectExec(`INSERT INTO refresh_tasks`).
			WithArgs(int64(7), scheduledAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, CreateRefreshTask(ctx, mock, 7, scheduledAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetLatestTask(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the most recent task", func(t *testing.T) {
		mock := newMockDB(t)
		now := time.Now()

		mock.ExpectQuery(`SELECT id, page_id, scheduled_at, status, created_at`).
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "page_id", "scheduled_at", "status", "created_at"}).
				AddRow(int64(3), int64(7), now.Add(168*time.Hour), domain.TaskStatusPending, now))

		task, err := GetLatestTask(ctx, mock, 7)

		require.NoError(t, err)
		assert.Equal(t, int64(3), task.ID)
		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should return task not found when the page has none", func(t *testing.T) {
		mock := newMockDB(t)

		mock.ExpectQuery(`SELECT id, page_id, scheduled_at, status, created_at`).
			WithArgs(int64(99)).
			WillReturnError(pgx.ErrNoRows)

		_, err := GetLatestTask(ctx, mock, 99)

		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})
}

func TestSetLatestTaskStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("should update the latest non-completed task", func(t *testing.T) {
		mock := newMockDB(t)

		mock.ExpectExec(`UPDATE refresh_tasks`).
			WithArgs(int64(7), domain.TaskStatusFailed).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, SetLatestTaskStatus(ctx, mock, 7, domain.TaskStatusFailed))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should tolerate a page with no outstanding task", func(t *testing.T) {
		mock := newMockDB(t)

		mock.ExpectExec(`UPDATE refresh_tasks`).
			WithArgs(int64(8), domain.TaskStatusCompleted).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.NoError(t, SetLatestTaskStatus(ctx, mock, 8, domain.TaskStatusCompleted))
	})
}
