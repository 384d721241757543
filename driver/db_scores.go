package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"page-pipeline/domain"

	"github.com/jackc/pgx/v5"
)

// UpsertQualityScore writes the latest quality score record for a page.
// The natural key is the page id; the previous breakdown is overwritten.
func UpsertQualityScore(ctx context.Context, db DB, record *domain.QualityScoreRecord) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	breakdown, err := json.Marshal(record.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal score breakdown: %w", err)
	}

	query := `
		INSERT INTO quality_scores (page_id, score, tier, breakdown, scored_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (page_id) DO UPDATE SET
			score = EXCLUDED.score,
			tier = EXCLUDED.tier,
			breakdown = EXCLUDED.breakdown,
			scored_at = EXCLUDED.scored_at
	`

	_, err = db.Exec(ctx, query, record.PageID, record.Score, record.Tier, breakdown, record.ScoredAt)

	return err
}

// GetQualityScore returns the latest quality score record for a page, or
// ErrPageNotFound when the page was never scored.
func GetQualityScore(ctx context.Context, db DB, pageID int64) (*domain.QualityScoreRecord, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `
		SELECT page_id, score, tier, breakdown, scored_at
		FROM quality_scores
		WHERE page_id = $1
	`

	var (
		record    domain.QualityScoreRecord
		breakdown []byte
	)

	err := db.QueryRow(ctx, query, pageID).Scan(&record.PageID, &record.Score, &record.Tier, &breakdown, &record.ScoredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPageNotFound
		}

		return nil, err
	}

	if err := json.Unmarshal(breakdown, &record.Breakdown); err != nil {
		return nil, fmt.Errorf("failed to unmarshal score breakdown: %w", err)
	}

	return &record, nil
}
