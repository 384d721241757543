package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTopic(t *testing.T) {
	t.Run("should lower-case and collapse whitespace", func(t *testing.T) {
		assert.Equal(t, "quantum computing", NormalizeTopic("  Quantum   COMPUTING \t"))
	})

	t.Run("should return empty string for whitespace-only input", func(t *testing.T) {
		assert.Equal(t, "", NormalizeTopic(" \t\n "))
	})

	t.Run("should keep punctuation intact", func(t *testing.T) {
		assert.Equal(t, "c++ basics", NormalizeTopic("C++ Basics"))
	})
}

func TestCacheKey(t *testing.T) {
	t.Run("should be deterministic and prefixed", func(t *testing.T) {
		key := CacheKey("quantum computing")

		assert.Equal(t, key, CacheKey("quantum computing"))
		assert.Regexp(t, `^page:[0-9a-f]{64}$`, key)
	})

	t.Run("should differ for different topics", func(t *testing.T) {
		assert.NotEqual(t, CacheKey("quantum computing"), CacheKey("quantum biology"))
	})
}

func TestSimilarity(t *testing.T) {
	t.Run("should return 1.0 for identical topics", func(t *testing.T) {
		assert.Equal(t, 1.0, Similarity("quantum computing", "quantum computing"))
	})

	t.Run("should return 1.0 when inputs normalize to the same topic", func(t *testing.T) {
		assert.Equal(t, 1.0, Similarity("Quantum  Computing", " quantum computing "))
	})

	t.Run("should be symmetric", func(t *testing.T) {
		a, b := "quantum computing", "quantum computer basics"

		assert.Equal(t, Similarity(a, b), Similarity(b, a))
	})

	t.Run("should return 0 for an empty side", func(t *testing.T) {
		assert.Equal(t, 0.0, Similarity("", "quantum computing"))
		assert.Equal(t, 0.0, Similarity("quantum computing", ""))
	})

	t.Run("should return 0 for fully disjoint bigrams", func(t *testing.T) {
		assert.Equal(t, 0.0, Similarity("abcd", "wxyz"))
	})

	t.Run("should score a trailing-character variant above the dedup threshold", func(t *testing.T) {
		// 16 shared bigrams of 17 total distinct: 16/17.
		score := Similarity("quantum computing", "quantum computings")

		assert.InDelta(t, 16.0/17.0, score, 1e-9)
		assert.GreaterOrEqual(t, score, 0.75)
	})

	t.Run("should score a related but distinct topic below the dedup threshold", func(t *testing.T) {
		// 13 shared bigrams, 16 and 22 per side: 13/(16+22-13).
		score := Similarity("quantum computing", "quantum computer basics")

		assert.InDelta(t, 0.52, score, 1e-9)
		assert.Less(t, score, 0.75)
	})

	t.Run("should count repeated bigrams by minimum multiplicity", func(t *testing.T) {
		// "abab" has ab x2 ba x1, "ababab" has ab x3 ba x2: common 3,
		// union 3+5-3.
		assert.InDelta(t, 0.6, Similarity("abab", "ababab"), 1e-9)
	})

	t.Run("should stay within the unit interval", func(t *testing.T) {
		pairs := [][2]string{
			{"go", "golang"},
			{"machine learning", "deep learning"},
			{"a", "ab"},
			{"日本語 処理", "日本語の処理"},
		}

		for _, pair := range pairs {
			score := Similarity(pair[0], pair[1])

			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	})
}
