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

// PageRepository implementation.
type pageRepository struct {
	db     driver.DB
	logger *slog.Logger
}

// NewPageRepository creates a new page repository.
func NewPageRepository(db driver.DB, logger *slog.Logger) PageRepository {
	return &pageRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new page and returns its id.
func (r *pageRepository) Create(ctx context.Context, page *domain.Page) (int64, error) {
	r.logger.InfoContext(ctx, "creating page", "topic", page.Topic)

	id, err := driver.CreatePage(ctx, r.db, page)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to create page", "error", err, "topic", page.Topic)
		return 0, fmt.Errorf("failed to create page: %w", err)
	}

	r.logger.InfoContext(ctx, "page created", "page_id", id, "topic", page.Topic)

	return id, nil
}

// FindByID returns a page by id.
func (r *pageRepository) FindByID(ctx context.Context, pageID int64) (*domain.Page, error) {
	page, err := driver.GetPageByID(ctx, r.db, pageID)
	if err != nil {
		if errors.Is(err, domain.ErrPageNotFound) {
			return nil, err
		}

		r.logger.ErrorContext(ctx, "failed to find page by id", "error", err, "page_id", pageID)

		return nil, fmt.Errorf("failed to find page by id: %w", err)
	}

	return page, nil
}

// FindByTopic returns the page with the given canonical topic.
func (r *pageRepository) FindByTopic(ctx context.Context, topic string) (*domain.Page, error) {
	page, err := driver.GetPageByTopic(ctx, r.db, topic)
	if err != nil {
		if errors.Is(err, domain.ErrPageNotFound) {
			return nil, err
		}

		r.logger.ErrorContext(ctx, "failed to find page by topic", "error", err, "topic", topic)

		return nil, fmt.Errorf("failed to find page by topic: %w", err)
	}

	return page, nil
}

// RecentActiveTopics returns the dedup candidate window.
func (r *pageRepository) RecentActiveTopics(ctx context.Context, limit int) ([]domain.TopicRef, error) {
	refs, err := driver.GetRecentActiveTopics(ctx, r.db, limit)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to get recent active topics", "error", err)
		return nil, fmt.Errorf("failed to get recent active topics: %w", err)
	}

	return refs, nil
}

// MostViewed returns active pages ordered by view count.
func (r *pageRepository) MostViewed(ctx context.Context, limit int) ([]*domain.Page, error) {
	pages, err := driver.GetMostViewedPages(ctx, r.db, limit)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to get most viewed pages", "error", err)
		return nil, fmt.Errorf("failed to get most viewed pages: %w", err)
	}

	return pages, nil
}

// FindDue returns pages eligible for refresh.
func (r *pageRepository) FindDue(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Page, error) {
	r.logger.InfoContext(ctx, "selecting due pages", "cutoff", cutoff, "limit", limit)

	pages, err := driver.GetDuePages(ctx, r.db, cutoff, limit)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to select due pages", "error", err)
		return nil, fmt.Errorf("failed to select due pages: %w", err)
	}

	r.logger.InfoContext(ctx, "selected due pages", "count", len(pages))

	return pages, nil
}

// UpdateContent overwrites the page body and sets last-refresh.
func (r *pageRepository) UpdateContent(ctx context.Context, pageID int64, body string, relevanceScore float64, refreshedAt time.Time) error {
	if err := driver.UpdatePageContent(ctx, r.db, pageID, body, relevanceScore, refreshedAt); err != nil {
		if errors.Is(err, domain.ErrPageNotFound) {
			return err
		}

		r.logger.ErrorContext(ctx, "failed to update page content", "error", err, "page_id", pageID)

		return fmt.Errorf("failed to update page content: %w", err)
	}

	return nil
}

// IncrementViewCount bumps the page view counter.
func (r *pageRepository) IncrementViewCount(ctx context.Context, pageID int64) error {
	if err := driver.IncrementViewCount(ctx, r.db, pageID); err != nil {
		if errors.Is(err, domain.ErrPageNotFound) {
			return err
		}

		r.logger.ErrorContext(ctx, "failed to increment view count", "error", err, "page_id", pageID)

		return fmt.Errorf("failed to increment view count: %w", err)
	}

	return nil
}

// SetQualityScore stores the page's current composite score.
func (r *pageRepository) SetQualityScore(ctx context.Context, pageID int64, score float64) error {
	if err := driver.SetPageQualityScore(ctx, r.db, pageID, score); err != nil {
		if errors.Is(err, domain.ErrPageNotFound) {
			return err
		}

		r.logger.ErrorContext(ctx, "failed to set page quality score", "error", err, "page_id", pageID)

		return fmt.Errorf("failed to set page quality score: %w", err)
	}

	return nil
}
