package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"page-pipeline/config"
	"page-pipeline/domain"
)

type aggregateResponse struct {
	Snippets []aggregateSnippet `json:"snippets"`
}

type aggregateSnippet struct {
	Source         string    `json:"source"`
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	RelevanceScore float64   `json:"relevance_score"`
	Premium        bool      `json:"premium"`
	PublishedAt    time.Time `json:"published_at"`
}

// AggregateSnippets calls the content aggregation collaborator. An empty
// snippet list is valid output ("insufficient data"), not an error.
func AggregateSnippets(ctx context.Context, cfg *config.Config, logger *slog.Logger, topic string) ([]domain.Snippet, error) {
	apiURL := fmt.Sprintf("%s%s?topic=%s", cfg.Aggregator.Host, cfg.Aggregator.APIPath, url.QueryEscape(topic))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: cfg.Aggregator.Timeout}

	resp, err := client.Do(req)
	if err != nil {
		logger.ErrorContext(ctx, "aggregation request failed", "error", err, "topic", topic)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.ErrorContext(ctx, "aggregation service returned non-OK status",
			"status", resp.StatusCode, "topic", topic)

		return nil, fmt.Errorf("aggregation service returned status %d", resp.StatusCode)
	}

	var aggregated aggregateResponse
	if err := json.NewDecoder(resp.Body).Decode(&aggregated); err != nil {
		logger.ErrorContext(ctx, "failed to decode aggregation response", "error", err)
		return nil, err
	}

	snippets := make([]domain.Snippet, 0, len(aggregated.Snippets))
	for _, s := range aggregated.Snippets {
		snippets = append(snippets, domain.Snippet{
			Source:         s.Source,
			URL:            s.URL,
			Title:          s.Title,
			Description:    s.Description,
			RelevanceScore: s.RelevanceScore,
			Premium:        s.Premium,
			PublishedAt:    s.PublishedAt,
		})
	}

	return snippets, nil
}
