package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"page-pipeline/config"
	"page-pipeline/domain"
	"page-pipeline/metrics"
	"page-pipeline/repository"
)

// CacheService implementation: a best-effort fast tier in front of the
// persistent store. The store is ground truth; the fast tier may be
// empty at any time (process restart, eviction, outage) without any
// functional consequence.
type cacheService struct {
	fastCache repository.FastCacheRepository
	pageRepo  repository.PageRepository
	logRepo   repository.CacheLogRepository
	collector *metrics.Collector
	ttl       time.Duration
	window    time.Duration
	logger    *slog.Logger
}

// NewCacheService creates the two-tier cache.
func NewCacheService(
	fastCache repository.FastCacheRepository,
	pageRepo repository.PageRepository,
	logRepo repository.CacheLogRepository,
	collector *metrics.Collector,
	cfg config.CacheConfig,
	logger *slog.Logger,
) CacheService {
	return &cacheService{
		fastCache: fastCache,
		pageRepo:  pageRepo,
		logRepo:   logRepo,
		collector: collector,
		ttl:       cfg.TTL,
		window:    cfg.StatsWindow,
		logger:    logger,
	}
}

// Get returns the snapshot for a normalized topic. The fast tier is
// probed first; on miss the persistent store is consulted, and a store
// hit repopulates the fast tier. Returns nil on a total miss.
func (s *cacheService) Get(ctx context.Context, topic string) (*domain.CacheSnapshot, error) {
	key := CacheKey(topic)

	snapshot, err := s.fastCache.Get(ctx, key)
	if err != nil {
		// Fast-tier trouble is a performance problem, never a
		// functional one.
		s.logger.WarnContext(ctx, "fast tier get failed, falling back to store", "key", key, "error", err)
		snapshot = nil
	}

	if snapshot != nil {
		s.recordAccess(ctx, key, true)
		s.collector.CacheHit()

		return snapshot, nil
	}

	s.recordAccess(ctx, key, false)
	s.collector.CacheMiss()

	page, err := s.pageRepo.FindByTopic(ctx, topic)
	if err != nil {
		if errors.Is(err, domain.ErrPageNotFound) {
			return nil, nil
		}

		return nil, err
	}

	snapshot = snapshotOf(page)

	if err := s.fastCache.Set(ctx, key, snapshot, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "fast tier repopulate failed", "key", key, "error", err)
	}

	return snapshot, nil
}

// SetPage writes a page snapshot to the fast tier. The persistent store
// is written by the pipeline directly, not by the cache.
func (s *cacheService) SetPage(ctx context.Context, page *domain.Page) error {
	key := CacheKey(page.Topic)

	if err := s.fastCache.Set(ctx, key, snapshotOf(page), s.ttl); err != nil {
		s.logger.WarnContext(ctx, "fast tier set failed", "key", key, "error", err)
	}

	return nil
}

// Invalidate removes the fast-tier entry for a topic.
func (s *cacheService) Invalidate(ctx context.Context, topic string) error {
	key := CacheKey(topic)

	if err := s.fastCache.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "fast tier delete failed", "key", key, "error", err)
	}

	return nil
}

// Warm loads the most-viewed pages into the fast tier. Intended for
// process start or operator-triggered runs, not continuous use.
func (s *cacheService) Warm(ctx context.Context, limit int) (int, error) {
	pages, err := s.pageRepo.MostViewed(ctx, limit)
	if err != nil {
		return 0, err
	}

	var warmed int

	for _, page := range pages {
		if err := s.fastCache.Set(ctx, CacheKey(page.Topic), snapshotOf(page), s.ttl); err != nil {
			s.logger.WarnContext(ctx, "warm-up set failed", "page_id", page.ID, "error", err)
			continue
		}

		warmed++
	}

	s.logger.InfoContext(ctx, "cache warm-up complete", "warmed", warmed, "candidates", len(pages))

	return warmed, nil
}

// Stats reports the rolling hit/miss ratio from the durable access log
// plus fast-tier entry count and memory. The durable log survives
// restarts; the fast-tier numbers are best-effort.
func (s *cacheService) Stats(ctx context.Context) (*domain.CacheStats, error) {
	hits, misses, err := s.logRepo.Counts(ctx, time.Now().Add(-s.window))
	if err != nil {
		return nil, err
	}

	stats := &domain.CacheStats{
		Hits:        hits,
		Misses:      misses,
		WindowHours: int(s.window.Hours()),
	}

	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}

	if count, err := s.fastCache.EntryCount(ctx); err != nil {
		s.logger.WarnContext(ctx, "fast tier entry count unavailable", "error", err)
	} else {
		stats.EntryCount = count
	}

	if used, err := s.fastCache.MemoryUsed(ctx); err != nil {
		s.logger.WarnContext(ctx, "fast tier memory usage unavailable", "error", err)
	} else {
		stats.MemoryUsedBytes = used
	}

	return stats, nil
}

func (s *cacheService) recordAccess(ctx context.Context, key string, hit bool) {
	if err := s.logRepo.Record(ctx, key, hit); err != nil {
		s.logger.WarnContext(ctx, "cache access log write failed", "key", key, "error", err)
	}
}

func snapshotOf(page *domain.Page) *domain.CacheSnapshot {
	return &domain.CacheSnapshot{
		PageID:    page.ID,
		Topic:     page.Topic,
		Body:      page.Body,
		ViewCount: page.ViewCount,
		CachedAt:  time.Now(),
	}
}
