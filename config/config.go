// ABOUTME: This file implements configuration management with environment variable support
// ABOUTME: Provides validation and defaults for the page pipeline service
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig     `json:"server"`
	Database   DatabaseConfig   `json:"database"`
	Redis      RedisConfig      `json:"redis"`
	Generator  GeneratorConfig  `json:"generator"`
	Aggregator AggregatorConfig `json:"aggregator"`
	Pipeline   PipelineConfig   `json:"pipeline"`
	Cache      CacheConfig      `json:"cache"`
	Refresh    RefreshConfig    `json:"refresh"`
	Scoring    ScoringConfig    `json:"scoring"`
}

type ServerConfig struct {
	Port            int           `json:"port" env:"SERVER_PORT" default:"9400"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	ReadTimeout     time.Duration `json:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `json:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"300s"` // Extended to allow generation latency
}

type DatabaseConfig struct {
	Host            string        `json:"host" env:"DB_HOST" default:"localhost"`
	Port            string        `json:"port" env:"DB_PORT" default:"5432"`
	User            string        `json:"user" env:"PAGE_PIPELINE_DB_USER" default:"page_pipeline"`
	Password        string        `json:"-" env:"PAGE_PIPELINE_DB_PASSWORD"`
	Name            string        `json:"name" env:"DB_NAME" default:"page_pipeline"`
	MaxConns        int           `json:"max_conns" env:"DB_MAX_CONNS" default:"20"`
	MinConns        int           `json:"min_conns" env:"DB_MIN_CONNS" default:"5"`
	MaxConnLifetime time.Duration `json:"max_conn_lifetime" env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `json:"max_conn_idle_time" env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

type RedisConfig struct {
	URL     string        `json:"url" env:"REDIS_URL" default:"redis://localhost:6379"`
	Enabled bool          `json:"enabled" env:"REDIS_ENABLED" default:"true"`
	Timeout time.Duration `json:"timeout" env:"REDIS_TIMEOUT" default:"2s"`
}

type GeneratorConfig struct {
	Host    string        `json:"host" env:"GENERATOR_HOST" default:"http://page-creator:11434"`
	APIPath string        `json:"api_path" env:"GENERATOR_API_PATH" default:"/api/generate"`
	Timeout time.Duration `json:"timeout" env:"GENERATOR_TIMEOUT" default:"120s"`
}

type AggregatorConfig struct {
	Host    string        `json:"host" env:"AGGREGATOR_HOST" default:"http://content-aggregator:9300"`
	APIPath string        `json:"api_path" env:"AGGREGATOR_API_PATH" default:"/api/aggregate"`
	Timeout time.Duration `json:"timeout" env:"AGGREGATOR_TIMEOUT" default:"60s"`
}

type PipelineConfig struct {
	// DedupThreshold is the similarity score at or above which two topics
	// are treated as the same page.
	DedupThreshold float64 `json:"dedup_threshold" env:"PIPELINE_DEDUP_THRESHOLD" default:"0.75"`
	// CandidateWindow bounds the number of recent active topics scanned
	// during fuzzy deduplication.
	CandidateWindow int `json:"candidate_window" env:"PIPELINE_CANDIDATE_WINDOW" default:"50"`
	MaxTopicLength  int `json:"max_topic_length" env:"PIPELINE_MAX_TOPIC_LENGTH" default:"500"`
}

type CacheConfig struct {
	TTL         time.Duration `json:"ttl" env:"CACHE_TTL" default:"168h"`
	StatsWindow time.Duration `json:"stats_window" env:"CACHE_STATS_WINDOW" default:"24h"`
	WarmLimit   int           `json:"warm_limit" env:"CACHE_WARM_LIMIT" default:"100"`
	WarmOnStart bool          `json:"warm_on_start" env:"CACHE_WARM_ON_START" default:"true"`
}

type RefreshConfig struct {
	// Interval is how long a page stays fresh after a successful refresh.
	Interval time.Duration `json:"interval" env:"REFRESH_INTERVAL" default:"168h"`
	// ItemPause is the fixed pause between batch items. It is the only
	// backpressure control on the generation service.
	ItemPause   time.Duration `json:"item_pause" env:"REFRESH_ITEM_PAUSE" default:"2s"`
	BatchSize   int           `json:"batch_size" env:"REFRESH_BATCH_SIZE" default:"40"`
	JobInterval time.Duration `json:"job_interval" env:"REFRESH_JOB_INTERVAL" default:"1h"`
	JobEnabled  bool          `json:"job_enabled" env:"REFRESH_JOB_ENABLED" default:"true"`
}

// ScoringConfig names the quality score component weights. The values are
// part of the scoring contract; the env overrides exist for experiments.
type ScoringConfig struct {
	FreshnessWeight     float64 `json:"freshness_weight" env:"SCORING_FRESHNESS_WEIGHT" default:"0.20"`
	SourceQualityWeight float64 `json:"source_quality_weight" env:"SCORING_SOURCE_QUALITY_WEIGHT" default:"0.25"`
	CompletenessWeight  float64 `json:"completeness_weight" env:"SCORING_COMPLETENESS_WEIGHT" default:"0.20"`
	EngagementWeight    float64 `json:"engagement_weight" env:"SCORING_ENGAGEMENT_WEIGHT" default:"0.20"`
	RelevanceWeight     float64 `json:"relevance_weight" env:"SCORING_RELEVANCE_WEIGHT" default:"0.15"`
}

// LoadConfig loads configuration from environment variables with defaults.
func LoadConfig() (*Config, error) {
	config := &Config{}

	var err error

	if config.Server.Port, err = envInt("SERVER_PORT", 9400); err != nil {
		return nil, err
	}

	if config.Server.ShutdownTimeout, err = envDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	if config.Server.ReadTimeout, err = envDuration("SERVER_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if config.Server.WriteTimeout, err = envDuration("SERVER_WRITE_TIMEOUT", 300*time.Second); err != nil {
		return nil, err
	}

	config.Database.Host = envString("DB_HOST", "localhost")
	config.Database.Port = envString("DB_PORT", "5432")
	config.Database.User = envString("PAGE_PIPELINE_DB_USER", "page_pipeline")
	config.Database.Password = envString("PAGE_PIPELINE_DB_PASSWORD", "")
	config.Database.Name = envString("DB_NAME", "page_pipeline")

	if config.Database.MaxConns, err = envInt("DB_MAX_CONNS", 20); err != nil {
		return nil, err
	}

	if config.Database.MinConns, err = envInt("DB_MIN_CONNS", 5); err != nil {
		return nil, err
	}

	if config.Database.MaxConnLifetime, err = envDuration("DB_MAX_CONN_LIFETIME", time.Hour); err != nil {
		return nil, err
	}

	if config.Database.MaxConnIdleTime, err = envDuration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute); err != nil {
		return nil, err
	}

	config.Redis.URL = envString("REDIS_URL", "redis://localhost:6379")

	if config.Redis.Enabled, err = envBool("REDIS_ENABLED", true); err != nil {
		return nil, err
	}

	if config.Redis.Timeout, err = envDuration("REDIS_TIMEOUT", 2*time.Second); err != nil {
		return nil, err
	}

	config.Generator.Host = envString("GENERATOR_HOST", "http://page-creator:11434")
	config.Generator.APIPath = envString("GENERATOR_API_PATH", "/api/generate")

	if config.Generator.Timeout, err = envDuration("GENERATOR_TIMEOUT", 120*time.Second); err != nil {
		return nil, err
	}

	config.Aggregator.Host = envString("AGGREGATOR_HOST", "http://content-aggregator:9300")
	config.Aggregator.APIPath = envString("AGGREGATOR_API_PATH", "/api/aggregate")

	if config.Aggregator.Timeout, err = envDuration("AGGREGATOR_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}

	if config.Pipeline.DedupThreshold, err = envFloat("PIPELINE_DEDUP_THRESHOLD", 0.75); err != nil {
		return nil, err
	}

	if config.Pipeline.CandidateWindow, err = envInt("PIPELINE_CANDIDATE_WINDOW", 50); err != nil {
		return nil, err
	}

	if config.Pipeline.MaxTopicLength, err = envInt("PIPELINE_MAX_TOPIC_LENGTH", 500); err != nil {
		return nil, err
	}

	if config.Cache.TTL, err = envDuration("CACHE_TTL", 168*time.Hour); err != nil {
		return nil, err
	}

	if config.Cache.StatsWindow, err = envDuration("CACHE_STATS_WINDOW", 24*time.Hour); err != nil {
		return nil, err
	}

	if config.Cache.WarmLimit, err = envInt("CACHE_WARM_LIMIT", 100); err != nil {
		return nil, err
	}

	if config.Cache.WarmOnStart, err = envBool("CACHE_WARM_ON_START", true); err != nil {
		return nil, err
	}

	if config.Refresh.Interval, err = envDuration("REFRESH_INTERVAL", 168*time.Hour); err != nil {
		return nil, err
	}

	if config.Refresh.ItemPause, err = envDuration("REFRESH_ITEM_PAUSE", 2*time.Second); err != nil {
		return nil, err
	}

	if config.Refresh.BatchSize, err = envInt("REFRESH_BATCH_SIZE", 40); err != nil {
		return nil, err
	}

	if config.Refresh.JobInterval, err = envDuration("REFRESH_JOB_INTERVAL", time.Hour); err != nil {
		return nil, err
	}

	if config.Refresh.JobEnabled, err = envBool("REFRESH_JOB_ENABLED", true); err != nil {
		return nil, err
	}

	if config.Scoring.FreshnessWeight, err = envFloat("SCORING_FRESHNESS_WEIGHT", 0.20); err != nil {
		return nil, err
	}

	if config.Scoring.SourceQualityWeight, err = envFloat("SCORING_SOURCE_QUALITY_WEIGHT", 0.25); err != nil {
		return nil, err
	}

	if config.Scoring.CompletenessWeight, err = envFloat("SCORING_COMPLETENESS_WEIGHT", 0.20); err != nil {
		return nil, err
	}

	if config.Scoring.EngagementWeight, err = envFloat("SCORING_ENGAGEMENT_WEIGHT", 0.20); err != nil {
		return nil, err
	}

	if config.Scoring.RelevanceWeight, err = envFloat("SCORING_RELEVANCE_WEIGHT", 0.15); err != nil {
		return nil, err
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Pipeline.DedupThreshold < 0 || config.Pipeline.DedupThreshold > 1 {
		return fmt.Errorf("dedup threshold must be in [0,1]: %f", config.Pipeline.DedupThreshold)
	}

	if config.Pipeline.CandidateWindow <= 0 {
		return fmt.Errorf("candidate window must be positive: %d", config.Pipeline.CandidateWindow)
	}

	if config.Pipeline.MaxTopicLength <= 0 {
		return fmt.Errorf("max topic length must be positive: %d", config.Pipeline.MaxTopicLength)
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive: %v", config.Cache.TTL)
	}

	if config.Refresh.Interval <= 0 {
		return fmt.Errorf("refresh interval must be positive: %v", config.Refresh.Interval)
	}

	if config.Refresh.ItemPause < 0 {
		return fmt.Errorf("refresh item pause cannot be negative: %v", config.Refresh.ItemPause)
	}

	if config.Refresh.BatchSize <= 0 {
		return fmt.Errorf("refresh batch size must be positive: %d", config.Refresh.BatchSize)
	}

	weights := config.Scoring.FreshnessWeight +
		config.Scoring.SourceQualityWeight +
		config.Scoring.CompletenessWeight +
		config.Scoring.EngagementWeight +
		config.Scoring.RelevanceWeight
	if weights < 0.99 || weights > 1.01 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %f", weights)
	}

	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, v)
	}

	return i, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, v)
	}

	return f, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", key, v)
	}

	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, v)
	}

	return d, nil
}
