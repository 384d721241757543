package driver

import (
	"context"
	"fmt"
	"time"
)

// RecordCacheAccess appends one hit/miss observation to the durable
// access log backing the cache statistics surface.
func RecordCacheAccess(ctx context.Context, db DB, cacheKey string, hit bool) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	query := `
		INSERT INTO cache_access_log (cache_key, hit, accessed_at)
		VALUES ($1, $2, now())
	`

	_, err := db.Exec(ctx, query, cacheKey, hit)

	return err
}

// GetCacheAccessCounts returns hit and miss counts since the cutoff.
func GetCacheAccessCounts(ctx context.Context, db DB, since time.Time) (hits, misses int64, err error) {
	if db == nil {
		return 0, 0, fmt.Errorf("database connection is nil")
	}

	query := `
		SELECT COALESCE(SUM(CASE WHEN hit THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN hit THEN 0 ELSE 1 END), 0)
		FROM cache_access_log
		WHERE accessed_at >= $1
	`

	err = db.QueryRow(ctx, query, since).Scan(&hits, &misses)
	if err != nil {
		return 0, 0, err
	}

	return hits, misses, nil
}
