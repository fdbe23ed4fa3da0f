// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package recommend

import (
	"math"
	"slices"
)

// Similarity returns the cosine similarity of two sparse vectors.
//
// The dot product runs over the shared keys only while each norm covers the
// full vector, so users who interacted with many unrelated items score lower.
// The result is in [-1, 1]; vectors with no shared key or a zero norm yield 0.
// Sums are accumulated in key order so that Similarity(a, b) and
// Similarity(b, a) are bit-for-bit equal.
func Similarity(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	shared := make([]string, 0, len(small))
	for k := range small {
		if _, ok := large[k]; ok {
			shared = append(shared, k)
		}
	}
	if len(shared) == 0 {
		return 0
	}
	slices.Sort(shared)

	var dot float64
	for _, k := range shared {
		dot += a[k] * b[k]
	}

	normA := norm(a)
	normB := norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (normA * normB)
	return math.Max(-1, math.Min(1, sim))
}

func norm(v map[string]float64) float64 {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var sum float64
	for _, k := range keys {
		sum += v[k] * v[k]
	}
	return math.Sqrt(sum)
}
