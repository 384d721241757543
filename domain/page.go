package domain

import "time"

// PageStatus is the lifecycle status of a page.
type PageStatus string

const (
	PageStatusActive   PageStatus = "active"
	PageStatusArchived PageStatus = "archived"
	PageStatusPending  PageStatus = "pending"
)

// Page is the canonical unit of content. Topic holds the canonical form
// (lower-cased, whitespace-normalized) of the query that created the page.
type Page struct {
	ID              int64      `json:"id"`
	Topic           string     `json:"topic"`
	Body            string     `json:"body"`
	Status          PageStatus `json:"status"`
	RelevanceScore  float64    `json:"relevance_score"`
	ViewCount       int64      `json:"view_count"`
	QualityScore    *float64   `json:"quality_score,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at,omitempty"`
}

// TopicRef is a projection of a page used as a dedup candidate.
type TopicRef struct {
	ID    int64
	Topic string
}

// ElementCounts holds per-type content element counts for a page,
// used by completeness scoring.
type ElementCounts struct {
	Text    int
	Image   int
	Table   int
	Diagram int
}

// Total returns the total number of content elements.
func (e ElementCounts) Total() int {
	return e.Text + e.Image + e.Table + e.Diagram
}

// EngagementStats aggregates trailing-window engagement for a page.
type EngagementStats struct {
	Views          int64
	Clicks         int64
	UniqueVisitors int64
}
