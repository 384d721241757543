package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"page-pipeline/driver"
)

// CacheLogRepository implementation.
type cacheLogRepository struct {
	db     driver.DB
	logger *slog.Logger
}

// NewCacheLogRepository creates a new cache access log repository.
func NewCacheLogRepository(db driver.DB, logger *slog.Logger) CacheLogRepository {
	return &cacheLogRepository{
		db:     db,
		logger: logger,
	}
}

// Record appends one hit/miss observation.
func (r *cacheLogRepository) Record(ctx context.Context, cacheKey string, hit bool) error {
	if err := driver.RecordCacheAccess(ctx, r.db, cacheKey, hit); err != nil {
		r.logger.ErrorContext(ctx, "failed to record cache access", "error", err, "key", cacheKey)
		return fmt.Errorf("failed to record cache access: %w", err)
	}

	return nil
}

// Counts returns hit and miss totals since the cutoff.
func (r *cacheLogRepository) Counts(ctx context.Context, since time.Time) (int64, int64, error) {
	hits, misses, err := driver.GetCacheAccessCounts(ctx, r.db, since)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to get cache access counts", "error", err)
		return 0, 0, fmt.Errorf("failed to get cache access counts: %w", err)
	}

	return hits, misses, nil
}
