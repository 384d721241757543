package service

import (
	"context"

	"page-pipeline/domain"
)

// Resolution is the outcome of resolving a topic query.
type Resolution struct {
	PageID int64  `json:"page_id"`
	Topic  string `json:"topic"`
	IsNew  bool   `json:"is_new"`
}

// PipelineService resolves topic queries to pages, creating them when no
// exact or near-duplicate page exists.
type PipelineService interface {
	Resolve(ctx context.Context, query string) (*Resolution, error)
}

// QualityScorerService computes and persists composite quality scores.
type QualityScorerService interface {
	Score(ctx context.Context, pageID int64) (*domain.QualityScoreRecord, error)
}

// CacheService is the two-tier page cache. Fast-tier failures are never
// surfaced: caching is an optimization, not a correctness dependency.
type CacheService interface {
	Get(ctx context.Context, topic string) (*domain.CacheSnapshot, error)
	SetPage(ctx context.Context, page *domain.Page) error
	Invalidate(ctx context.Context, topic string) error
	Warm(ctx context.Context, limit int) (int, error)
	Stats(ctx context.Context) (*domain.CacheStats, error)
}

// RefreshSchedulerService selects due pages and drives the rate-limited
// refresh batch.
type RefreshSchedulerService interface {
	SelectDue(ctx context.Context, limit int) ([]*domain.Page, error)
	RunBatch(ctx context.Context) (*domain.BatchResult, error)
}
