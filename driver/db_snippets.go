package driver

import (
	"context"
	"fmt"

	"page-pipeline/domain"

	"github.com/jackc/pgx/v5"
)

// GetSnippetsByPageID returns a page's source snippet records.
func GetSnippetsByPageID(ctx context.Context, db DB, pageID int64) ([]domain.Snippet, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `
		SELECT id, page_id, source, url, title, description, relevance_score, premium, published_at
		FROM page_snippets
		WHERE page_id = $1
		ORDER BY relevance_score DESC, id ASC
	`

	rows, err := db.Query(ctx, query, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snippets []domain.Snippet

	for rows.Next() {
		var s domain.Snippet

		err := rows.Scan(&s.ID, &s.PageID, &s.Source, &s.URL, &s.Title,
			&s.Description, &s.RelevanceScore, &s.Premium, &s.PublishedAt)
		if err != nil {
			return nil, err
		}

		snippets = append(snippets, s)
	}

	return snippets, rows.Err()
}

// ReplacePageSnippets deletes a page's old snippet records and inserts the
// new set in one transaction, so a refresh never leaves a page with a
// mixed snippet set.
func ReplacePageSnippets(ctx context.Context, db DB, pageID int64, snippets []domain.Snippet) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM page_snippets WHERE page_id = $1`, pageID); err != nil {
		return err
	}

	insert := `
		INSERT INTO page_snippets (page_id, source, url, title, description, relevance_score, premium, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	batch := &pgx.Batch{}
	for _, s := range snippets {
		batch.Queue(insert, pageID, s.Source, s.URL, s.Title, s.Description, s.RelevanceScore, s.Premium, s.PublishedAt)
	}

	results := tx.SendBatch(ctx, batch)

	for range snippets {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return err
		}
	}

	if err := results.Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
