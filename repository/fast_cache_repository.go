package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"page-pipeline/domain"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "page:"

// FastCacheRepository implementation backed by Redis. A nil client means
// the fast tier is disabled; every method then reports a miss.
type fastCacheRepository struct {
	client *redis.Client
	logger *slog.Logger
}

// NewFastCacheRepository creates the Redis-backed fast tier. client may
// be nil when Redis is disabled.
func NewFastCacheRepository(client *redis.Client, logger *slog.Logger) FastCacheRepository {
	return &fastCacheRepository{
		client: client,
		logger: logger,
	}
}

// Get returns the cached snapshot for the key, or nil on a miss.
func (r *fastCacheRepository) Get(ctx context.Context, key string) (*domain.CacheSnapshot, error) {
	if r.client == nil {
		return nil, nil
	}

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, err
	}

	var snapshot domain.CacheSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		// A corrupt entry is a miss, not an error; drop it.
		r.logger.WarnContext(ctx, "dropping corrupt cache entry", "key", key, "error", err)
		r.client.Del(ctx, key)

		return nil, nil
	}

	return &snapshot, nil
}

// Set overwrites the entry for the key with the given TTL.
func (r *fastCacheRepository) Set(ctx context.Context, key string, snapshot *domain.CacheSnapshot, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal cache snapshot: %w", err)
	}

	return r.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes the entry for the key.
func (r *fastCacheRepository) Delete(ctx context.Context, key string) error {
	if r.client == nil {
		return nil
	}

	return r.client.Del(ctx, key).Err()
}

// EntryCount counts page entries currently in the fast tier.
func (r *fastCacheRepository) EntryCount(ctx context.Context) (int64, error) {
	if r.client == nil {
		return 0, nil
	}

	var (
		cursor uint64
		count  int64
	)

	for {
		keys, next, err := r.client.Scan(ctx, cursor, cacheKeyPrefix+"*", 1000).Result()
		if err != nil {
			return 0, err
		}

		count += int64(len(keys))

		if next == 0 {
			break
		}

		cursor = next
	}

	return count, nil
}

// MemoryUsed reports the fast tier's used memory in bytes.
func (r *fastCacheRepository) MemoryUsed(ctx context.Context) (int64, error) {
	if r.client == nil {
		return 0, nil
	}

	info, err := r.client.Info(ctx, "memory").Result()
	if err != nil {
		return 0, err
	}

	return parseUsedMemory(info), nil
}

func parseUsedMemory(info string) int64 {
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if v, ok := strings.CutPrefix(line, "used_memory:"); ok {
			used, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return 0
			}

			return used
		}
	}

	return 0
}
