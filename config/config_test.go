package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("should load defaults when no env is set", func(t *testing.T) {
		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, 9400, cfg.Server.Port)
		assert.Equal(t, 0.75, cfg.Pipeline.DedupThreshold)
		assert.Equal(t, 50, cfg.Pipeline.CandidateWindow)
		assert.Equal(t, 500, cfg.Pipeline.MaxTopicLength)
		assert.Equal(t, 168*time.Hour, cfg.Cache.TTL)
		assert.Equal(t, 24*time.Hour, cfg.Cache.StatsWindow)
		assert.Equal(t, 168*time.Hour, cfg.Refresh.Interval)
		assert.Equal(t, 2*time.Second, cfg.Refresh.ItemPause)
		assert.Equal(t, 40, cfg.Refresh.BatchSize)
		assert.True(t, cfg.Redis.Enabled)
	})

	t.Run("should load default scoring weights summing to one", func(t *testing.T) {
		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, 0.20, cfg.Scoring.FreshnessWeight)
		assert.Equal(t, 0.25, cfg.Scoring.SourceQualityWeight)
		assert.Equal(t, 0.20, cfg.Scoring.CompletenessWeight)
		assert.Equal(t, 0.20, cfg.Scoring.EngagementWeight)
		assert.Equal(t, 0.15, cfg.Scoring.RelevanceWeight)
	})

	t.Run("should honor environment overrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "8080")
		t.Setenv("PIPELINE_DEDUP_THRESHOLD", "0.9")
		t.Setenv("CACHE_TTL", "48h")
		t.Setenv("REFRESH_ITEM_PAUSE", "500ms")
		t.Setenv("REDIS_ENABLED", "false")

		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 0.9, cfg.Pipeline.DedupThreshold)
		assert.Equal(t, 48*time.Hour, cfg.Cache.TTL)
		assert.Equal(t, 500*time.Millisecond, cfg.Refresh.ItemPause)
		assert.False(t, cfg.Redis.Enabled)
	})

	t.Run("should reject a malformed integer", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "not-a-number")

		_, err := LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "SERVER_PORT")
	})

	t.Run("should reject a malformed duration", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "soon")

		_, err := LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "CACHE_TTL")
	})

	t.Run("should reject an out-of-range port", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "70000")

		_, err := LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid server port")
	})

	t.Run("should reject a dedup threshold above one", func(t *testing.T) {
		t.Setenv("PIPELINE_DEDUP_THRESHOLD", "1.5")

		_, err := LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "dedup threshold")
	})

	t.Run("should reject scoring weights that do not sum to one", func(t *testing.T) {
		t.Setenv("SCORING_FRESHNESS_WEIGHT", "0.9")

		_, err := LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "scoring weights")
	})

	t.Run("should reject a non-positive batch size", func(t *testing.T) {
		t.Setenv("REFRESH_BATCH_SIZE", "0")

		_, err := LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch size")
	})
}
