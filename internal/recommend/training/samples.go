// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package training

import (
	"math"
	"math/rand"

	"github.com/tomtom215/jobrec/internal/recommend"
)

// Features are the item attributes captured with a sample.
type Features struct {
	Title  string   `json:"title"`
	Skills []string `json:"skills"`
	City   string   `json:"city"`
}

// Sample is one labelled user-item pair.
type Sample struct {
	UserID   string           `json:"user_id"`
	ItemID   string           `json:"item_id"`
	Action   recommend.Action `json:"action"`
	Label    float64          `json:"label"`
	Features Features         `json:"features"`
}

// LabelFor maps an action to a relevance label in [0, 1]. Unlike the matrix
// weight, an ignore is labelled 0 rather than negative.
func LabelFor(a recommend.Action) float64 {
	switch a {
	case recommend.ActionApply:
		return 1.0
	case recommend.ActionLike:
		return 0.8
	case recommend.ActionSave:
		return 0.7
	case recommend.ActionView:
		return 0.3
	default:
		return 0
	}
}

// Split shuffles samples with a seeded source and holds out round(n*testSize)
// of them, at least one when there are samples. The input is not modified.
func Split(samples []Sample, testSize float64, seed int64) (train, test []Sample) {
	if len(samples) == 0 {
		return nil, nil
	}

	shuffled := make([]Sample, len(samples))
	copy(shuffled, samples)
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic split, not security sensitive
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := int(math.Round(float64(len(shuffled)) * testSize))
	n = max(1, min(n, len(shuffled)))
	return shuffled[n:], shuffled[:n]
}
