package service

import (
	"context"
	"log/slog"
	"time"

	"page-pipeline/config"
	"page-pipeline/domain"
	"page-pipeline/repository"
)

const (
	// Engagement is evaluated over a trailing 30-day window.
	engagementWindow = 30 * 24 * time.Hour

	sourceCountCap   = 10
	premiumSourceCap = 5
	elementCountCap  = 20

	viewCap          = 100.0
	clickCap         = 50.0
	uniqueVisitorCap = 20.0
)

// QualityScorerService implementation. Each of the five signal
// components is computed independently; partial data degrades that
// component to a safe default instead of failing the whole score.
type qualityScorerService struct {
	pageRepo    repository.PageRepository
	snippetRepo repository.SnippetRepository
	scoreRepo   repository.ScoreRepository
	weights     config.ScoringConfig
	logger      *slog.Logger
}

// NewQualityScorerService creates a new quality scorer.
func NewQualityScorerService(
	pageRepo repository.PageRepository,
	snippetRepo repository.SnippetRepository,
	scoreRepo repository.ScoreRepository,
	weights config.ScoringConfig,
	logger *slog.Logger,
) QualityScorerService {
	return &qualityScorerService{
		pageRepo:    pageRepo,
		snippetRepo: snippetRepo,
		scoreRepo:   scoreRepo,
		weights:     weights,
		logger:      logger,
	}
}

// Score computes the 0-100 composite score for a page, persists the
// breakdown as the page's current score record, and returns it.
func (s *qualityScorerService) Score(ctx context.Context, pageID int64) (*domain.QualityScoreRecord, error) {
	page, err := s.pageRepo.FindByID(ctx, pageID)
	if err != nil {
		return nil, err
	}

	breakdown := map[string]domain.ComponentScore{
		domain.ComponentFreshness: {
			Value:  freshnessScore(time.Since(page.CreatedAt)),
			Weight: s.weights.FreshnessWeight,
		},
		domain.ComponentSourceQuality: {
			Value:  s.sourceQualityScore(ctx, pageID),
			Weight: s.weights.SourceQualityWeight,
		},
		domain.ComponentCompleteness: {
			Value:  s.completenessScore(ctx, page),
			Weight: s.weights.CompletenessWeight,
		},
		domain.ComponentEngagement: {
			Value:  s.engagementScore(ctx, pageID),
			Weight: s.weights.EngagementWeight,
		},
		domain.ComponentRelevance: {
			Value:  clamp01(page.RelevanceScore),
			Weight: s.weights.RelevanceWeight,
		},
	}

	var weighted float64
	for _, component := range breakdown {
		weighted += component.Value * component.Weight
	}

	score := clamp(weighted*100, 0, 100)

	record := &domain.QualityScoreRecord{
		PageID:    pageID,
		Score:     score,
		Tier:      domain.TierForScore(score),
		Breakdown: breakdown,
		ScoredAt:  time.Now(),
	}

	if err := s.scoreRepo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	if err := s.pageRepo.SetQualityScore(ctx, pageID, score); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "page scored", "page_id", pageID, "score", score, "tier", record.Tier)

	return record, nil
}

// freshnessScore decays with page age: 1.0 through 7 days, 0.9 through
// 30, 0.7 through 90, then max(0.3, 1.0 - (ageDays/365)*0.7).
func freshnessScore(age time.Duration) float64 {
	ageDays := age.Hours() / 24

	switch {
	case ageDays <= 7:
		return 1.0
	case ageDays <= 30:
		return 0.9
	case ageDays <= 90:
		return 0.7
	default:
		return max(0.3, 1.0-(ageDays/365)*0.7)
	}
}

// sourceQualityScore combines unique-source count, mean relevance,
// premium-source presence, and relevance consistency. Zero source
// records score 0.
func (s *qualityScorerService) sourceQualityScore(ctx context.Context, pageID int64) float64 {
	snippets, err := s.snippetRepo.FindByPageID(ctx, pageID)
	if err != nil {
		s.logger.WarnContext(ctx, "source quality degraded to 0", "page_id", pageID, "error", err)
		return 0
	}

	if len(snippets) == 0 {
		return 0
	}

	uniqueSources := make(map[string]struct{})

	var (
		premiumCount int
		maxRelevance float64
		minRelevance = 1.0
	)

	for _, snippet := range snippets {
		uniqueSources[snippet.Source] = struct{}{}

		if snippet.Premium {
			premiumCount++
		}

		if snippet.RelevanceScore > maxRelevance {
			maxRelevance = snippet.RelevanceScore
		}

		if snippet.RelevanceScore < minRelevance {
			minRelevance = snippet.RelevanceScore
		}
	}

	countRatio := min(float64(len(uniqueSources)), sourceCountCap) / sourceCountCap
	meanRelevance := domain.MeanRelevance(snippets)
	premiumRatio := min(float64(premiumCount), premiumSourceCap) / premiumSourceCap

	var consistency float64
	if maxRelevance > 0 {
		consistency = 1 - (maxRelevance-minRelevance)/maxRelevance
	}

	return 0.3*countRatio + 0.4*meanRelevance + 0.2*premiumRatio + 0.1*consistency
}

// completenessScore combines element count (60%) with a variety score
// (40%) that awards 0.25 each for image, table, and diagram elements
// plus a fixed 0.25 for having any text content.
func (s *qualityScorerService) completenessScore(ctx context.Context, page *domain.Page) float64 {
	counts, err := s.scoreRepo.ElementCounts(ctx, page.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "completeness degraded to 0", "page_id", page.ID, "error", err)
		return 0
	}

	countRatio := min(float64(counts.Total()), elementCountCap) / elementCountCap

	var variety float64

	if counts.Image > 0 {
		variety += 0.25
	}

	if counts.Table > 0 {
		variety += 0.25
	}

	if counts.Diagram > 0 {
		variety += 0.25
	}

	if counts.Text > 0 || page.Body != "" {
		variety += 0.25
	}

	return 0.6*countRatio + 0.4*variety
}

// engagementScore weights capped view, click, and unique-visitor counts
// over the trailing 30 days. Zero engagement rows score 0.
func (s *qualityScorerService) engagementScore(ctx context.Context, pageID int64) float64 {
	stats, err := s.scoreRepo.EngagementStats(ctx, pageID, time.Now().Add(-engagementWindow))
	if err != nil {
		s.logger.WarnContext(ctx, "engagement degraded to 0", "page_id", pageID, "error", err)
		return 0
	}

	views := min(float64(stats.Views)/viewCap, 1.0)
	clicks := min(float64(stats.Clicks)/clickCap, 1.0)
	users := min(float64(stats.UniqueVisitors)/uniqueVisitorCap, 1.0)

	return 0.4*views + 0.3*clicks + 0.3*users
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
