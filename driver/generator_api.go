package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"page-pipeline/config"
	"page-pipeline/domain"
)

type generatePayload struct {
	Topic    string            `json:"topic"`
	Snippets []generateSnippet `json:"snippets"`
}

type generateSnippet struct {
	Source      string  `json:"source"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Relevance   float64 `json:"relevance"`
}

type generateResponse struct {
	Body string `json:"body"`
	Done bool   `json:"done"`
}

// GeneratePageContent calls the content generation collaborator. A
// collaborator-side failure is signaled by an empty body, which the
// caller maps to ErrGenerationFailed; transport errors are returned as-is.
// The call is idempotent-safe to retry.
func GeneratePageContent(ctx context.Context, cfg *config.Config, logger *slog.Logger, topic string, snippets []domain.Snippet) (string, error) {
	apiURL := cfg.Generator.Host + cfg.Generator.APIPath

	payload := generatePayload{
		Topic:    topic,
		Snippets: make([]generateSnippet, 0, len(snippets)),
	}

	for _, s := range snippets {
		payload.Snippets = append(payload.Snippets, generateSnippet{
			Source:      s.Source,
			Title:       s.Title,
			Description: s.Description,
			URL:         s.URL,
			Relevance:   s.RelevanceScore,
		})
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorContext(ctx, "failed to marshal generate payload", "error", err)
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: cfg.Generator.Timeout}

	resp, err := client.Do(req)
	if err != nil {
		logger.ErrorContext(ctx, "generation request failed", "error", err, "topic", topic)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logger.ErrorContext(ctx, "generation service returned non-OK status",
			"status", resp.StatusCode, "topic", topic, "body", string(body))

		return "", fmt.Errorf("generation service returned status %d", resp.StatusCode)
	}

	var generated generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		logger.ErrorContext(ctx, "failed to decode generation response", "error", err)
		return "", err
	}

	return generated.Body, nil
}
