package repository

import (
	"context"
	"fmt"
	"log/slog"

	"page-pipeline/config"
	"page-pipeline/domain"
	"page-pipeline/driver"
)

// ExternalAPIRepository implementation.
type externalAPIRepository struct {
	config *config.Config
	logger *slog.Logger
}

// NewExternalAPIRepository creates a repository for collaborator calls.
func NewExternalAPIRepository(cfg *config.Config, logger *slog.Logger) ExternalAPIRepository {
	return &externalAPIRepository{
		config: cfg,
		logger: logger,
	}
}

// GenerateContent calls the generation collaborator. An empty body is
// returned as-is; the pipeline decides that it means generation failed.
func (r *externalAPIRepository) GenerateContent(ctx context.Context, topic string, snippets []domain.Snippet) (string, error) {
	body, err := driver.GeneratePageContent(ctx, r.config, r.logger, topic, snippets)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return body, nil
}

// AggregateSnippets calls the aggregation collaborator. An empty list is
// valid output, not an error.
func (r *externalAPIRepository) AggregateSnippets(ctx context.Context, topic string) ([]domain.Snippet, error) {
	snippets, err := driver.AggregateSnippets(ctx, r.config, r.logger, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate snippets: %w", err)
	}

	return snippets, nil
}
