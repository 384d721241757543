package driver

import (
	"context"
	"log/slog"

	"page-pipeline/config"

	"github.com/redis/go-redis/v9"
)

// InitRedis creates the Redis client for the fast cache tier. A failed
// ping is logged but does not abort startup: the cache degrades to the
// persistent store when the fast tier is unavailable.
func InitRedis(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("Failed to parse redis URL", "error", err, "url", cfg.Redis.URL)
		return nil, err
	}

	opts.DialTimeout = cfg.Redis.Timeout
	opts.ReadTimeout = cfg.Redis.Timeout
	opts.WriteTimeout = cfg.Redis.Timeout

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis ping failed, cache fast tier degraded", "error", err)
	} else {
		logger.Info("Connected to redis", "addr", opts.Addr)
	}

	return client, nil
}
