package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"page-pipeline/config"
	"page-pipeline/domain"
	"page-pipeline/metrics"
	"page-pipeline/repository"
)

// PipelineService implementation: resolves a topic query to an existing
// page (exact or near-duplicate) or creates one, scores it, caches it,
// and schedules its first refresh.
type pipelineService struct {
	pageRepo    repository.PageRepository
	snippetRepo repository.SnippetRepository
	taskRepo    repository.TaskRepository
	apiRepo     repository.ExternalAPIRepository
	scorer      QualityScorerService
	cache       CacheService
	collector   *metrics.Collector
	cfg         config.Config
	logger      *slog.Logger

	// topicLocks serializes check-and-create per normalized topic so two
	// concurrent resolves of near-identical queries cannot both create a
	// page. Entries are reference-counted and removed once the last
	// holder releases, so the map stays bounded by in-flight resolves.
	lockMu     sync.Mutex
	topicLocks map[string]*topicLock
}

type topicLock struct {
	mu   sync.Mutex
	refs int
}

// NewPipelineService creates the pipeline orchestrator.
func NewPipelineService(
	pageRepo repository.PageRepository,
	snippetRepo repository.SnippetRepository,
	taskRepo repository.TaskRepository,
	apiRepo repository.ExternalAPIRepository,
	scorer QualityScorerService,
	cache CacheService,
	collector *metrics.Collector,
	cfg config.Config,
	logger *slog.Logger,
) PipelineService {
	return &pipelineService{
		pageRepo:    pageRepo,
		snippetRepo: snippetRepo,
		taskRepo:    taskRepo,
		apiRepo:     apiRepo,
		scorer:      scorer,
		cache:       cache,
		collector:   collector,
		cfg:         cfg,
		logger:      logger,
		topicLocks:  make(map[string]*topicLock),
	}
}

// Resolve normalizes the query, resolves it to an existing page via
// exact then fuzzy matching, and creates a new page when neither
// matches. View count and cache are updated on every resolution.
func (s *pipelineService) Resolve(ctx context.Context, query string) (*Resolution, error) {
	start := time.Now()
	defer func() {
		s.collector.ObserveResolveDuration(time.Since(start).Seconds())
	}()

	topic := NormalizeTopic(query)

	if topic == "" || len(topic) > s.cfg.Pipeline.MaxTopicLength {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTopic, truncate(query, 80))
	}

	unlock := s.lockTopic(topic)
	defer unlock()

	// Exact canonical match.
	page, err := s.pageRepo.FindByTopic(ctx, topic)
	if err == nil {
		s.logger.InfoContext(ctx, "resolved topic by exact match", "topic", topic, "page_id", page.ID)
		s.collector.Resolve("exact")
		s.touch(ctx, page)

		return &Resolution{PageID: page.ID, Topic: page.Topic, IsNew: false}, nil
	}

	if !errors.Is(err, domain.ErrPageNotFound) {
		return nil, err
	}

	// Fuzzy match over a bounded recent window of active topics.
	match, err := s.findSimilar(ctx, topic)
	if err != nil {
		return nil, err
	}

	if match != nil {
		s.logger.InfoContext(ctx, "resolved topic by fuzzy match", "topic", topic, "matched", match.Topic, "page_id", match.ID)
		s.collector.Resolve("fuzzy")

		page, err := s.pageRepo.FindByID(ctx, match.ID)
		if err != nil {
			return nil, err
		}

		s.touch(ctx, page)

		return &Resolution{PageID: page.ID, Topic: page.Topic, IsNew: false}, nil
	}

	page, err = s.createPage(ctx, topic)
	if err != nil {
		return nil, err
	}

	s.collector.Resolve("created")
	s.touch(ctx, page)

	return &Resolution{PageID: page.ID, Topic: page.Topic, IsNew: true}, nil
}

// findSimilar scans the recent active topic window and returns the first
// candidate at or above the dedup threshold.
func (s *pipelineService) findSimilar(ctx context.Context, topic string) (*domain.TopicRef, error) {
	refs, err := s.pageRepo.RecentActiveTopics(ctx, s.cfg.Pipeline.CandidateWindow)
	if err != nil {
		return nil, err
	}

	for _, ref := range refs {
		if Similarity(topic, ref.Topic) >= s.cfg.Pipeline.DedupThreshold {
			return &ref, nil
		}
	}

	return nil, nil
}

// createPage builds new content via the collaborators and persists the
// page, its snippets, its first refresh task, and its initial score.
// Nothing is persisted when generation fails or returns empty content.
func (s *pipelineService) createPage(ctx context.Context, topic string) (*domain.Page, error) {
	snippets, err := s.apiRepo.AggregateSnippets(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregation: %w", domain.ErrGenerationFailed, err)
	}

	if len(snippets) == 0 {
		s.logger.InfoContext(ctx, "aggregator returned no snippets, generating from topic alone", "topic", topic)
	}

	body, err := s.apiRepo.GenerateContent(ctx, topic, snippets)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}

	if strings.TrimSpace(body) == "" {
		return nil, domain.ErrGenerationFailed
	}

	page := &domain.Page{
		Topic:          topic,
		Body:           body,
		Status:         domain.PageStatusActive,
		RelevanceScore: domain.MeanRelevance(snippets),
	}

	id, err := s.pageRepo.Create(ctx, page)
	if err != nil {
		return nil, err
	}

	page.ID = id
	page.CreatedAt = time.Now()

	if len(snippets) > 0 {
		if err := s.snippetRepo.ReplaceForPage(ctx, id, snippets); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Create(ctx, id, time.Now().Add(s.cfg.Refresh.Interval)); err != nil {
		return nil, err
	}

	// Seed the initial quality score. A scoring failure does not undo
	// the page; it will be rescored on the next pass.
	if record, err := s.scorer.Score(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "initial scoring failed", "page_id", id, "error", err)
	} else {
		page.QualityScore = &record.Score
	}

	s.logger.InfoContext(ctx, "created page", "page_id", id, "topic", topic, "snippets", len(snippets))

	return page, nil
}

// touch increments the view count and refreshes the cache entry.
// Both are best-effort on the resolution path.
func (s *pipelineService) touch(ctx context.Context, page *domain.Page) {
	if err := s.pageRepo.IncrementViewCount(ctx, page.ID); err != nil {
		s.logger.WarnContext(ctx, "failed to increment view count", "page_id", page.ID, "error", err)
	} else {
		page.ViewCount++
	}

	if err := s.cache.SetPage(ctx, page); err != nil {
		s.logger.WarnContext(ctx, "failed to cache page", "page_id", page.ID, "error", err)
	}
}

func (s *pipelineService) lockTopic(topic string) func() {
	s.lockMu.Lock()
	l, ok := s.topicLocks[topic]
	if !ok {
		l = &topicLock{}
		s.topicLocks[topic] = l
	}
	l.refs++
	s.lockMu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		s.lockMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.topicLocks, topic)
		}
		s.lockMu.Unlock()
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
