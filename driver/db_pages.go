package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"page-pipeline/domain"

	"github.com/jackc/pgx/v5"
)

const pageColumns = `id, topic, body, status, relevance_score, view_count, quality_score, created_at, last_refreshed_at`

func scanPage(row pgx.Row) (*domain.Page, error) {
	var page domain.Page

	err := row.Scan(
		&page.ID,
		&page.Topic,
		&page.Body,
		&page.Status,
		&page.RelevanceScore,
		&page.ViewCount,
		&page.QualityScore,
		&page.CreatedAt,
		&page.LastRefreshedAt,
	)
	if err != nil {
		return nil, err
	}

	return &page, nil
}

// GetPageByID returns a page by id, or ErrPageNotFound.
func GetPageByID(ctx context.Context, db DB, pageID int64) (*domain.Page, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `SELECT ` + pageColumns + ` FROM pages WHERE id = $1`

	page, err := scanPage(db.QueryRow(ctx, query, pageID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPageNotFound
		}

		return nil, err
	}

	return page, nil
}

// GetPageByTopic returns the page with the given canonical topic, or
// ErrPageNotFound. Topic must already be normalized by the caller.
func GetPageByTopic(ctx context.Context, db DB, topic string) (*domain.Page, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `SELECT ` + pageColumns + ` FROM pages WHERE topic = $1`

	page, err := scanPage(db.QueryRow(ctx, query, topic))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPageNotFound
		}

		return nil, err
	}

	return page, nil
}

// GetRecentActiveTopics returns the canonical topics of the most recently
// created active pages. The limit bounds the fuzzy dedup scan.
func GetRecentActiveTopics(ctx context.Context, db DB, limit int) ([]domain.TopicRef, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `
		SELECT id, topic
		FROM pages
		WHERE status = 'active'
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []domain.TopicRef

	for rows.Next() {
		var ref domain.TopicRef
		if err := rows.Scan(&ref.ID, &ref.Topic); err != nil {
			return nil, err
		}

		refs = append(refs, ref)
	}

	return refs, rows.Err()
}

// CreatePage inserts a new active page and returns its id.
func CreatePage(ctx context.Context, db DB, page *domain.Page) (int64, error) {
	if db == nil {
		return 0, fmt.Errorf("database connection is nil")
	}

	query := `
		INSERT INTO pages (topic, body, status, relevance_score, view_count, created_at)
		VALUES ($1, $2, $3, $4, 0, now())
		RETURNING id
	`

	var id int64

	err := db.QueryRow(ctx, query, page.Topic, page.Body, page.Status, page.RelevanceScore).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// UpdatePageContent overwrites the page body and relevance score and sets
// the last-refresh timestamp.
func UpdatePageContent(ctx context.Context, db DB, pageID int64, body string, relevanceScore float64, refreshedAt time.Time) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	query := `
		UPDATE pages
		SET body = $2, relevance_score = $3, last_refreshed_at = $4
		WHERE id = $1
	`

	tag, err := db.Exec(ctx, query, pageID, body, relevanceScore, refreshedAt)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPageNotFound
	}

	return nil
}

// IncrementViewCount bumps the view counter by one.
func IncrementViewCount(ctx context.Context, db DB, pageID int64) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	query := `UPDATE pages SET view_count = view_count + 1 WHERE id = $1`

	tag, err := db.Exec(ctx, query, pageID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPageNotFound
	}

	return nil
}

// SetPageQualityScore stores the page's current composite score.
func SetPageQualityScore(ctx context.Context, db DB, pageID int64, score float64) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	query := `UPDATE pages SET quality_score = $2 WHERE id = $1`

	tag, err := db.Exec(ctx, query, pageID, score)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPageNotFound
	}

	return nil
}

// GetMostViewedPages returns active pages ordered by view count, used for
// cache warm-up.
func GetMostViewedPages(ctx context.Context, db DB, limit int) ([]*domain.Page, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `
		SELECT ` + pageColumns + `
		FROM pages
		WHERE status = 'active'
		ORDER BY view_count DESC, id ASC
		LIMIT $1
	`

	rows, err := db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*domain.Page

	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}

		pages = append(pages, page)
	}

	return pages, rows.Err()
}

// GetDuePages selects active pages eligible for refresh: the latest
// refresh task is absent, failed, or pending with its scheduled time
// passed, and the page was never refreshed or refreshed before the
// cutoff. The latest-task join keeps at most one outstanding task per
// page effective without a unique constraint.
func GetDuePages(ctx context.Context, db DB, cutoff time.Time, limit int) ([]*domain.Page, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `
		SELECT p.id, p.topic, p.body, p.status, p.relevance_score, p.view_count,
		       p.quality_score, p.created_at, p.last_refreshed_at
		FROM pages p
		LEFT JOIN LATERAL (
			SELECT status, scheduled_at
			FROM refresh_tasks t
			WHERE t.page_id = p.id
			ORDER BY t.created_at DESC, t.id DESC
			LIMIT 1
		) latest ON true
		WHERE p.status = 'active'
		  AND (latest.status IS NULL
		       OR latest.status = 'failed'
		       OR (latest.status = 'pending' AND latest.scheduled_at <= now()))
		  AND (p.last_refreshed_at IS NULL OR p.last_refreshed_at < $1)
		ORDER BY p.last_refreshed_at ASC NULLS FIRST, p.id ASC
		LIMIT $2
	`

	rows, err := db.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*domain.Page

	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}

		pages = append(pages, page)
	}

	return pages, rows.Err()
}
