package domain

import "time"

// CacheSnapshot is the fast-tier projection of a page: the fields needed
// for cheap serving, captured at write time.
type CacheSnapshot struct {
	PageID    int64     `json:"page_id"`
	Topic     string    `json:"topic"`
	Body      string    `json:"body"`
	ViewCount int64     `json:"view_count"`
	CachedAt  time.Time `json:"cached_at"`
}

// CacheStats is the read-only statistics surface consumed by monitoring.
// HitRate is computed over a rolling window from the durable access log,
// so it survives process restarts.
type CacheStats struct {
	HitRate         float64 `json:"hit_rate"`
	Hits            int64   `json:"hits"`
	Misses          int64   `json:"misses"`
	EntryCount      int64   `json:"entry_count"`
	MemoryUsedBytes int64   `json:"memory_used_bytes"`
	WindowHours     int     `json:"window_hours"`
}
