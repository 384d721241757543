package domain

import "time"

// QualityTier is the discrete label derived from a quality score.
type QualityTier string

const (
	TierExcellent    QualityTier = "Excellent"
	TierGood         QualityTier = "Good"
	TierFair         QualityTier = "Fair"
	TierBelowAverage QualityTier = "Below Average"
	TierPoor         QualityTier = "Poor"
)

// TierForScore maps a 0-100 quality score to its tier. Boundaries are
// inclusive: exactly 85.0 is Excellent, 84.999 is Good.
func TierForScore(score float64) QualityTier {
	switch {
	case score >= 85:
		return TierExcellent
	case score >= 70:
		return TierGood
	case score >= 55:
		return TierFair
	case score >= 40:
		return TierBelowAverage
	default:
		return TierPoor
	}
}

// Quality score component names.
const (
	ComponentFreshness     = "freshness"
	ComponentSourceQuality = "source_quality"
	ComponentCompleteness  = "completeness"
	ComponentEngagement    = "engagement"
	ComponentRelevance     = "relevance"
)

// ComponentScore is one weighted signal in a quality score breakdown.
// Value is in [0,1].
type ComponentScore struct {
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

// QualityScoreRecord is the breakdown behind a page's quality score.
// The latest record per page overwrites the previous one.
type QualityScoreRecord struct {
	PageID    int64                     `json:"page_id"`
	Score     float64                   `json:"score"`
	Tier      QualityTier               `json:"tier"`
	Breakdown map[string]ComponentScore `json:"breakdown"`
	ScoredAt  time.Time                 `json:"scored_at"`
}
