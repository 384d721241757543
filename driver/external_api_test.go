package driver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"page-pipeline/config"
	"page-pipeline/domain"
)

func apiTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func generatorConfig(host string) *config.Config {
	return &config.Config{
		Generator: config.GeneratorConfig{Host: host, APIPath: "/api/generate", Timeout: 5 * time.Second},
	}
}

func aggregatorConfig(host string) *config.Config {
	return &config.Config{
		Aggregator: config.AggregatorConfig{Host: host, APIPath: "/api/aggregate", Timeout: 5 * time.Second},
	}
}

func TestGeneratePageContent(t *testing.T) {
	ctx := context.Background()

	t.Run("should post topic and snippets and return the body", func(t *testing.T) {
		var received generatePayload

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/generate", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

			_ = json.NewEncoder(w).Encode(generateResponse{Body: "<article>quantum computing</article>", Done: true})
		}))
		defer server.Close()

		snippets := []domain.Snippet{{Source: "wiki", Title: "Quantum", RelevanceScore: 0.9}}

		body, err := GeneratePageContent(ctx, generatorConfig(server.URL), apiTestLogger(), "quantum computing", snippets)

		require.NoError(t, err)
		assert.Equal(t, "<article>quantum computing</article>", body)
		assert.Equal(t, "quantum computing", received.Topic)
		require.Len(t, received.Snippets, 1)
		assert.Equal(t, "wiki", received.Snippets[0].Source)
		assert.InDelta(t, 0.9, received.Snippets[0].Relevance, 1e-9)
	})

	t.Run("should return the empty body for the caller to judge", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(generateResponse{Body: "", Done: true})
		}))
		defer server.Close()

		body, err := GeneratePageContent(ctx, generatorConfig(server.URL), apiTestLogger(), "quantum computing", nil)

		require.NoError(t, err)
		assert.Empty(t, body)
	})

	t.Run("should fail on a non-OK status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := GeneratePageContent(ctx, generatorConfig(server.URL), apiTestLogger(), "quantum computing", nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("should fail when the service is unreachable", func(t *testing.T) {
		_, err := GeneratePageContent(ctx, generatorConfig("http://localhost:1"), apiTestLogger(), "quantum computing", nil)

		assert.Error(t, err)
	})
}

func TestAggregateSnippets(t *testing.T) {
	ctx := context.Background()

	t.Run("should query by topic and map the snippets", func(t *testing.T) {
		published := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "quantum computing", r.URL.Query().Get("topic"))

			_ = json.NewEncoder(w).Encode(aggregateResponse{Snippets: []aggregateSnippet{
				{Source: "wiki", URL: "https://wiki/qc", Title: "QC", RelevanceScore: 0.9, Premium: true, PublishedAt: published},
			}})
		}))
		defer server.Close()

		snippets, err := AggregateSnippets(ctx, aggregatorConfig(server.URL), apiTestLogger(), "quantum computing")

		require.NoError(t, err)
		require.Len(t, snippets, 1)
		assert.Equal(t, "wiki", snippets[0].Source)
		assert.True(t, snippets[0].Premium)
		assert.Equal(t, published, snippets[0].PublishedAt)
	})

	t.Run("should treat an empty snippet list as valid output", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(aggregateResponse{})
		}))
		defer server.Close()

		snippets, err := AggregateSnippets(ctx, aggregatorConfig(server.URL), apiTestLogger(), "obscure topic")

		require.NoError(t, err)
		assert.Empty(t, snippets)
	})

	t.Run("should fail on a non-OK status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad", http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := AggregateSnippets(ctx, aggregatorConfig(server.URL), apiTestLogger(), "quantum computing")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})
}
