package repository

import (
	"context"
	"time"

	"page-pipeline/domain"
)

// PageRepository handles page data persistence.
type PageRepository interface {
	Create(ctx context.Context, page *domain.Page) (int64, error)
	FindByID(ctx context.Context, pageID int64) (*domain.Page, error)
	FindByTopic(ctx context.Context, topic string) (*domain.Page, error)
	RecentActiveTopics(ctx context.Context, limit int) ([]domain.TopicRef, error)
	MostViewed(ctx context.Context, limit int) ([]*domain.Page, error)
	FindDue(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Page, error)
	UpdateContent(ctx context.Context, pageID int64, body string, relevanceScore float64, refreshedAt time.Time) error
	IncrementViewCount(ctx context.Context, pageID int64) error
	SetQualityScore(ctx context.Context, pageID int64, score float64) error
}

// SnippetRepository handles source snippet persistence.
type SnippetRepository interface {
	FindByPageID(ctx context.Context, pageID int64) ([]domain.Snippet, error)
	ReplaceForPage(ctx context.Context, pageID int64, snippets []domain.Snippet) error
}

// TaskRepository handles refresh task persistence.
type TaskRepository interface {
	Create(ctx context.Context, pageID int64, scheduledAt time.Time) error
	FindLatest(ctx context.Context, pageID int64) (*domain.RefreshTask, error)
	SetLatestStatus(ctx context.Context, pageID int64, status domain.TaskStatus) error
}

// ScoreRepository handles quality score record persistence.
type ScoreRepository interface {
	Upsert(ctx context.Context, record *domain.QualityScoreRecord) error
	Find(ctx context.Context, pageID int64) (*domain.QualityScoreRecord, error)
	EngagementStats(ctx context.Context, pageID int64, since time.Time) (*domain.EngagementStats, error)
	ElementCounts(ctx context.Context, pageID int64) (*domain.ElementCounts, error)
}

// CacheLogRepository handles the durable cache hit/miss log.
type CacheLogRepository interface {
	Record(ctx context.Context, cacheKey string, hit bool) error
	Counts(ctx context.Context, since time.Time) (hits, misses int64, err error)
}

// FastCacheRepository is the process-external fast tier (Redis). Every
// method is best-effort: callers must treat failures as cache misses.
type FastCacheRepository interface {
	Get(ctx context.Context, key string) (*domain.CacheSnapshot, error)
	Set(ctx context.Context, key string, snapshot *domain.CacheSnapshot, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	EntryCount(ctx context.Context) (int64, error)
	MemoryUsed(ctx context.Context) (int64, error)
}

// ExternalAPIRepository handles content generation and aggregation
// collaborator calls.
type ExternalAPIRepository interface {
	GenerateContent(ctx context.Context, topic string, snippets []domain.Snippet) (string, error)
	AggregateSnippets(ctx context.Context, topic string) ([]domain.Snippet, error)
}
