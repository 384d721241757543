package driver

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"page-pipeline/domain"
)

func TestUpsertQualityScore(t *testing.T) {
	ctx := context.Background()

	t.Run("should insert or replace the score record", func(t *testing.T) {
		mock := newMockDB(t)
		scoredAt := time.Now()

		record := &domain.QualityScoreRecord{
			PageID: 7,
			Score:  62.6,
			Tier:   domain.TierFair,
			Breakdown: map[string]domain.ComponentScore{
				domain.ComponentFreshness: {Value: 1.0, Weight: 0.20},
			},
			ScoredAt: scoredAt,
		}

		breakdown, err := json.Marshal(record.Breakdown)
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO quality_scores`).
			WithArgs(int64(7), 62.6, domain.TierFair, breakdown, scoredAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, UpsertQualityScore(ctx, mock, record))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetQualityScore(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the record with its breakdown", func(t *testing.T) {
		mock := newMockDB(t)
		scoredAt := time.Now()

		breakdown, err := json.Marshal(map[string]domain.ComponentScore{
			domain.ComponentRelevance: {Value: 0.8, Weight: 0.15},
		})
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT page_id, score, tier, breakdown, scored_at`).
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows([]string{"page_id", "score", "tier", "breakdown", "scored_at"}).
				AddRow(int64(7), 62.6, domain.TierFair, breakdown, scoredAt))

		record, err := GetQualityScore(ctx, mock, 7)

		require.NoError(t, err)
		assert.Equal(t, 62.6, record.Score)
		assert.Equal(t, domain.TierFair, record.Tier)
		assert.InDelta(t, 0.8, record.Breakdown[domain.ComponentRelevance].Value, 1e-9)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should return not found for an unscored page", func(t *testing.T) {
		mock := newMockDB(t)

		mock.ExpectQuery(`SELECT page_id, score, tier, breakdown, scored_at`).
			WithArgs(int64(99)).
			WillReturnError(pgx.ErrNoRows)

		_, err := GetQualityScore(ctx, mock, 99)

		assert.ErrorIs(t, err, domain.ErrPageNotFound)
	})
}
