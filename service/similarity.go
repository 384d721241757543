// ABOUTME: Pure topic normalization and approximate-match scoring functions
// ABOUTME: Used by the pipeline for near-duplicate topic detection
package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NormalizeTopic canonicalizes a topic query: lower-cased, whitespace
// runs collapsed to single spaces, leading/trailing whitespace trimmed.
func NormalizeTopic(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// CacheKey returns the stable fast-tier key for a normalized topic.
func CacheKey(topic string) string {
	sum := sha256.Sum256([]byte(topic))
	return "page:" + hex.EncodeToString(sum[:])
}

// Similarity computes an approximate-match score in [0,1] between two
// topic strings. Both are normalized, split into overlapping character
// bigrams treated as multisets, and compared with the overlap
// coefficient |common| / (|gramsA| + |gramsB| - |common|), where common
// counts minimum multiplicities per bigram so repeated substrings are
// weighted. Symmetric, deterministic, side-effect free.
func Similarity(a, b string) float64 {
	na := NormalizeTopic(a)
	nb := NormalizeTopic(b)

	if na == nb {
		return 1.0
	}

	gramsA := bigrams(na)
	gramsB := bigrams(nb)

	totalA := multisetSize(gramsA)
	totalB := multisetSize(gramsB)

	if totalA == 0 || totalB == 0 {
		return 0.0
	}

	var common int

	for gram, countA := range gramsA {
		if countB, ok := gramsB[gram]; ok {
			common += min(countA, countB)
		}
	}

	score := float64(common) / float64(totalA+totalB-common)

	// Guard against floating-point drift.
	if score < 0 {
		return 0.0
	}

	if score > 1 {
		return 1.0
	}

	return score
}

// bigrams returns the multiset of overlapping 2-character substrings.
func bigrams(s string) map[string]int {
	runes := []rune(s)
	grams := make(map[string]int)

	for i := 0; i+1 < len(runes); i++ {
		grams[string(runes[i:i+2])]++
	}

	return grams
}

func multisetSize(grams map[string]int) int {
	var size int
	for _, count := range grams {
		size += count
	}

	return size
}
