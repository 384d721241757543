package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"page-pipeline/config"
	"page-pipeline/domain"
	"page-pipeline/metrics"
	"page-pipeline/repository"

	"golang.org/x/time/rate"
)

// RefreshSchedulerService implementation. The batch is strictly
// sequential with a fixed pause between items: the pause is the sole
// backpressure control on the external generation service.
type refreshSchedulerService struct {
	pageRepo    repository.PageRepository
	snippetRepo repository.SnippetRepository
	taskRepo    repository.TaskRepository
	apiRepo     repository.ExternalAPIRepository
	collector   *metrics.Collector
	cfg         config.RefreshConfig
	logger      *slog.Logger
}

// NewRefreshSchedulerService creates a new refresh scheduler.
func NewRefreshSchedulerService(
	pageRepo repository.PageRepository,
	snippetRepo repository.SnippetRepository,
	taskRepo repository.TaskRepository,
	apiRepo repository.ExternalAPIRepository,
	collector *metrics.Collector,
	cfg config.RefreshConfig,
	logger *slog.Logger,
) RefreshSchedulerService {
	return &refreshSchedulerService{
		pageRepo:    pageRepo,
		snippetRepo: snippetRepo,
		taskRepo:    taskRepo,
		apiRepo:     apiRepo,
		collector:   collector,
		cfg:         cfg,
		logger:      logger,
	}
}

// SelectDue returns pages eligible for refresh: never refreshed or
// refreshed before the interval cutoff, with no outstanding pending task
// dated in the future.
func (s *refreshSchedulerService) SelectDue(ctx context.Context, limit int) ([]*domain.Page, error) {
	cutoff := time.Now().Add(-s.cfg.Interval)

	return s.pageRepo.FindDue(ctx, cutoff, limit)
}

// RunBatch refreshes due pages one at a time. A failure on one page
// marks its task failed and moves on; it never aborts the batch. Only a
// failure of the due-page selection itself is catastrophic.
func (s *refreshSchedulerService) RunBatch(ctx context.Context) (*domain.BatchResult, error) {
	pages, err := s.SelectDue(ctx, s.cfg.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to select due pages: %w", err)
	}

	s.logger.InfoContext(ctx, "starting refresh batch", "due", len(pages))

	result := &domain.BatchResult{}

	limiter := s.pacing()

	var failures []string

	for i, page := range pages {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				// Context canceled mid-batch: report what was done.
				result.Message = batchMessage(result, failures)
				return result, nil
			}
		}

		s.logger.InfoContext(ctx, "refreshing page", "index", i, "page_id", page.ID, "topic", page.Topic)

		if err := s.refreshPage(ctx, page); err != nil {
			s.logger.ErrorContext(ctx, "page refresh failed", "page_id", page.ID, "topic", page.Topic, "error", err)

			if taskErr := s.taskRepo.SetLatestStatus(ctx, page.ID, domain.TaskStatusFailed); taskErr != nil {
				s.logger.ErrorContext(ctx, "failed to mark task failed", "page_id", page.ID, "error", taskErr)
			}

			result.Failed++
			failures = append(failures, fmt.Sprintf("page %d: %v", page.ID, err))
			s.collector.RefreshOutcome(false)

			continue
		}

		result.Updated++
		s.collector.RefreshOutcome(true)
	}

	result.Message = batchMessage(result, failures)

	s.logger.InfoContext(ctx, "refresh batch complete", "updated", result.Updated, "failed", result.Failed)

	return result, nil
}

// refreshPage re-runs aggregation and generation for one page. On
// success the body is overwritten, snippets replaced, the task marked
// completed, and a new pending task scheduled one interval out.
func (s *refreshSchedulerService) refreshPage(ctx context.Context, page *domain.Page) error {
	snippets, err := s.apiRepo.AggregateSnippets(ctx, page.Topic)
	if err != nil {
		return err
	}

	body, err := s.apiRepo.GenerateContent(ctx, page.Topic, snippets)
	if err != nil {
		return err
	}

	if strings.TrimSpace(body) == "" {
		return domain.ErrGenerationFailed
	}

	now := time.Now()

	if err := s.pageRepo.UpdateContent(ctx, page.ID, body, domain.MeanRelevance(snippets), now); err != nil {
		return err
	}

	if err := s.snippetRepo.ReplaceForPage(ctx, page.ID, snippets); err != nil {
		return err
	}

	if err := s.taskRepo.SetLatestStatus(ctx, page.ID, domain.TaskStatusCompleted); err != nil {
		return err
	}

	return s.taskRepo.Create(ctx, page.ID, now.Add(s.cfg.Interval))
}

func (s *refreshSchedulerService) pacing() *rate.Limiter {
	if s.cfg.ItemPause <= 0 {
		return nil
	}

	// Burst of 1 so the first item starts immediately and every later
	// item waits out the full pause.
	return rate.NewLimiter(rate.Every(s.cfg.ItemPause), 1)
}

func batchMessage(result *domain.BatchResult, failures []string) string {
	msg := fmt.Sprintf("refreshed %d pages, %d failed", result.Updated, result.Failed)
	if len(failures) > 0 {
		msg += ": " + strings.Join(failures, "; ")
	}

	return msg
}
