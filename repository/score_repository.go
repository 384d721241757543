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

// ScoreRepository implementation. Also serves the scoring inputs that
// live outside the quality_scores table (engagement, element counts).
type scoreRepository struct {
	db     driver.DB
	logger *slog.Logger
}

// NewScoreRepository creates a new quality score repository.
func NewScoreRepository(db driver.DB, logger *slog.Logger) ScoreRepository {
	return &scoreRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert writes the latest score record for a page, keyed by page id.
func (r *scoreRepository) Upsert(ctx context.Context, record *domain.QualityScoreRecord) error {
	r.logger.InfoContext(ctx, "upserting quality score", "page_id", record.PageID, "score", record.Score, "tier", record.Tier)

	if err := driver.UpsertQualityScore(ctx, r.db, record); err != nil {
		r.logger.ErrorContext(ctx, "failed to upsert quality score", "error", err, "page_id", record.PageID)
		return fmt.Errorf("failed to upsert quality score: %w", err)
	}

	return nil
}

// Find returns the latest score record for a page.
func (r *scoreRepository) Find(ctx context.Context, pageID int64) (*domain.QualityScoreRecord, error) {
	record, err := driver.GetQualityScore(ctx, r.db, pageID)
	if err != nil {
		if errors.Is(err, domain.ErrPageNotFound) {
			return nil, err
		}

		r.logger.ErrorContext(ctx, "failed to find quality score", "error", err, "page_id", pageID)

		return nil, fmt.Errorf("failed to find quality score: %w", err)
	}

	return record, nil
}

// EngagementStats aggregates engagement rows since the cutoff.
func (r *scoreRepository) EngagementStats(ctx context.Context, pageID int64, since time.Time) (*domain.EngagementStats, error) {
	stats, err := driver.GetEngagementStats(ctx, r.db, pageID, since)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to get engagement stats", "error", err, "page_id", pageID)
		return nil, fmt.Errorf("failed to get engagement stats: %w", err)
	}

	return stats, nil
}

// ElementCounts returns per-type content element counts for a page.
func (r *scoreRepository) ElementCounts(ctx context.Context, pageID int64) (*domain.ElementCounts, error) {
	counts, err := driver.GetElementCounts(ctx, r.db, pageID)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to get element counts", "error", err, "page_id", pageID)
		return nil, fmt.Errorf("failed to get element counts: %w", err)
	}

	return counts, nil
}
