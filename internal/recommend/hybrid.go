// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package recommend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/jobrec/internal/metrics"
)

// Weights defines the relative contribution of the content and collaborative
// strategies to a hybrid score.
type Weights struct {
	Content       float64 `json:"content" koanf:"content"`
	Collaborative float64 `json:"collaborative" koanf:"collaborative"`
}

// Interaction-count bands for adaptive weighting.
const (
	coldStartInteractions   = 5
	establishedInteractions = 20
)

// WeightsForInteractionCount returns the blend for a user with n interactions.
// Users with little history lean on the content matcher; the collaborative
// share grows as history accumulates.
func WeightsForInteractionCount(n int) Weights {
	switch {
	case n < coldStartInteractions:
		return Weights{Content: 0.9, Collaborative: 0.1}
	case n < establishedInteractions:
		return Weights{Content: 0.7, Collaborative: 0.3}
	default:
		return Weights{Content: 0.5, Collaborative: 0.5}
	}
}

// InteractionCounter reports how many interactions a user has.
type InteractionCounter interface {
	CountInteractions(ctx context.Context, userID string) (int, error)
}

// Blender chooses per-user weights and merges strategy outputs.
type Blender struct {
	counter  InteractionCounter
	fallback Weights
	logger   zerolog.Logger
}

// NewBlender creates a blender that falls back to fallback when the
// interaction count is unavailable.
func NewBlender(counter InteractionCounter, fallback Weights, logger zerolog.Logger) *Blender {
	return &Blender{
		counter:  counter,
		fallback: fallback,
		logger:   logger.With().Str("component", "blender").Logger(),
	}
}

// DetermineWeights returns the blend for userID. Lookup failures are logged
// and answered with the fallback weights.
func (b *Blender) DetermineWeights(ctx context.Context, userID string) Weights {
	n, err := b.counter.CountInteractions(ctx, userID)
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues("weights").Inc()
		b.logger.Warn().Err(err).Str("user_id", userID).Msg("Interaction count unavailable, using fallback weights")
		return b.fallback
	}
	return WeightsForInteractionCount(n)
}

// Merge full-outer-joins content and collaborative recommendations on item
// ID. A side missing for an item contributes 0. The result follows the order
// of content first, then collaborative-only items, and is not sorted.
func Merge(content, collaborative []Recommendation, wContent, wCollab float64) []Recommendation {
	type entry struct {
		content, collab *Recommendation
	}
	byID := make(map[string]*entry, len(content)+len(collaborative))
	order := make([]string, 0, len(content)+len(collaborative))

	get := func(id string) *entry {
		e, ok := byID[id]
		if !ok {
			e = &entry{}
			byID[id] = e
			order = append(order, id)
		}
		return e
	}
	for i := range content {
		get(content[i].ItemID).content = &content[i]
	}
	for i := range collaborative {
		get(collaborative[i].ItemID).collab = &collaborative[i]
	}

	merged := make([]Recommendation, 0, len(order))
	for _, id := range order {
		e := byID[id]
		var rec Recommendation
		rec.ItemID = id

		switch {
		case e.content != nil && e.collab != nil:
			rec.ContentScore = e.content.Score
			rec.CollaborativeScore = e.collab.Score
			rec.SupportingUsers = e.collab.SupportingUsers
			rec.Source = SourceHybrid
			rec.Confidence = (contentConfidence(rec.ContentScore) + collaborativeConfidence(rec.SupportingUsers)) / 2
			rec.Reasons = make([]string, 0, 1+len(e.content.Reasons)+len(e.collab.Reasons))
			rec.Reasons = append(rec.Reasons, "Matches your profile and is popular with similar job seekers")
			rec.Reasons = append(rec.Reasons, e.content.Reasons...)
			rec.Reasons = append(rec.Reasons, e.collab.Reasons...)
		case e.content != nil:
			rec.ContentScore = e.content.Score
			rec.Source = SourceContent
			rec.Confidence = contentConfidence(rec.ContentScore)
			rec.Reasons = append([]string(nil), e.content.Reasons...)
		default:
			rec.CollaborativeScore = e.collab.Score
			rec.SupportingUsers = e.collab.SupportingUsers
			rec.Source = SourceCollaborative
			rec.Confidence = collaborativeConfidence(rec.SupportingUsers)
			rec.Reasons = append([]string(nil), e.collab.Reasons...)
		}

		rec.Score = clampScore(rec.ContentScore*wContent + rec.CollaborativeScore*wCollab)
		merged = append(merged, rec)
	}
	return merged
}

// CollaborativeToRecommendations converts collaborative scores into
// recommendations with a supporting-users reason.
func CollaborativeToRecommendations(scores []CollaborativeScore) []Recommendation {
	recs := make([]Recommendation, 0, len(scores))
	for _, s := range scores {
		reason := "A job seeker with similar activity engaged with this job"
		if s.SupportingUsers > 1 {
			reason = fmt.Sprintf("%d job seekers with similar activity engaged with this job", s.SupportingUsers)
		}
		recs = append(recs, Recommendation{
			ItemID:             s.ItemID,
			Score:              s.Score,
			Confidence:         collaborativeConfidence(s.SupportingUsers),
			Source:             SourceCollaborative,
			Reasons:            []string{reason},
			CollaborativeScore: s.Score,
			SupportingUsers:    s.SupportingUsers,
		})
	}
	return recs
}

func contentConfidence(score float64) float64 {
	return clampScore(score) / 100
}

func collaborativeConfidence(supportingUsers int) float64 {
	return min(1, float64(supportingUsers)/5)
}

func clampScore(s float64) float64 {
	return max(0, min(100, s))
}
