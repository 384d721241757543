package repository

import (
	"context"
	"fmt"
	"log/slog"

	"page-pipeline/domain"
	"page-pipeline/driver"
)

// SnippetRepository implementation.
type snippetRepository struct {
	db     driver.DB
	logger *slog.Logger
}

// NewSnippetRepository creates a new snippet repository.
func NewSnippetRepository(db driver.DB, logger *slog.Logger) SnippetRepository {
	return &snippetRepository{
		db:     db,
		logger: logger,
	}
}

// FindByPageID returns a page's source snippet records.
func (r *snippetRepository) FindByPageID(ctx context.Context, pageID int64) ([]domain.Snippet, error) {
	snippets, err := driver.GetSnippetsByPageID(ctx, r.db, pageID)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to find snippets", "error", err, "page_id", pageID)
		return nil, fmt.Errorf("failed to find snippets: %w", err)
	}

	return snippets, nil
}

// ReplaceForPage swaps a page's snippet set transactionally.
func (r *snippetRepository) ReplaceForPage(ctx context.Context, pageID int64, snippets []domain.Snippet) error {
	r.logger.InfoContext(ctx, "replacing page snippets", "page_id", pageID, "count", len(snippets))

	if err := driver.ReplacePageSnippets(ctx, r.db, pageID, snippets); err != nil {
		r.logger.ErrorContext(ctx, "failed to replace snippets", "error", err, "page_id", pageID)
		return fmt.Errorf("failed to replace snippets: %w", err)
	}

	return nil
}
