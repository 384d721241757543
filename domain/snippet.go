package domain

import "time"

// Snippet is a source record produced by the content aggregation
// collaborator and attached to a page. RelevanceScore is in [0,1].
type Snippet struct {
	ID             int64     `json:"id"`
	PageID         int64     `json:"page_id"`
	Source         string    `json:"source"`
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	RelevanceScore float64   `json:"relevance_score"`
	Premium        bool      `json:"premium"`
	PublishedAt    time.Time `json:"published_at"`
}

// MeanRelevance returns the average relevance score of the snippets,
// or 0 when the slice is empty.
func MeanRelevance(snippets []Snippet) float64 {
	if len(snippets) == 0 {
		return 0
	}

	var sum float64
	for _, s := range snippets {
		sum += s.RelevanceScore
	}

	return sum / float64(len(snippets))
}
