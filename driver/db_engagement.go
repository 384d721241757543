package driver

import (
	"context"
	"fmt"
	"time"

	"page-pipeline/domain"
)

// GetEngagementStats aggregates engagement rows for a page since the
// given cutoff. Zero rows produce zero stats, not an error.
func GetEngagementStats(ctx context.Context, db DB, pageID int64, since time.Time) (*domain.EngagementStats, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `
		SELECT COALESCE(SUM(views), 0),
		       COALESCE(SUM(clicks), 0),
		       COALESCE(SUM(unique_visitors), 0)
		FROM page_engagement
		WHERE page_id = $1 AND day >= $2
	`

	var stats domain.EngagementStats

	err := db.QueryRow(ctx, query, pageID, since).Scan(&stats.Views, &stats.Clicks, &stats.UniqueVisitors)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// GetElementCounts returns per-type content element counts for a page.
// Unknown element types are ignored.
func GetElementCounts(ctx context.Context, db DB, pageID int64) (*domain.ElementCounts, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `
		SELECT element_type, COALESCE(SUM(element_count), 0)
		FROM page_elements
		WHERE page_id = $1
		GROUP BY element_type
	`

	rows, err := db.Query(ctx, query, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts domain.ElementCounts

	for rows.Next() {
		var (
			elementType string
			count       int
		)

		if err := rows.Scan(&elementType, &count); err != nil {
			return nil, err
		}

		switch elementType {
		case "text":
			counts.Text = count
		case "image":
			counts.Image = count
		case "table":
			counts.Table = count
		case "diagram":
			counts.Diagram = count
		}
	}

	return &counts, rows.Err()
}
