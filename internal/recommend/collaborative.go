// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package recommend

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
)

// SimilarUser is a neighbour of a target user.
type SimilarUser struct {
	UserID     string  `json:"user_id"`
	Similarity float64 `json:"similarity"`
}

// CollaborativeScore is an item suggested by similar users.
type CollaborativeScore struct {
	ItemID string `json:"item_id"`
	// Score is in [0, 100].
	Score           float64 `json:"score"`
	SupportingUsers int     `json:"supporting_users"`
}

// CollaborativeRecommender implements user-based collaborative filtering
// over the user-item matrix.
type CollaborativeRecommender struct {
	matrix     MatrixProvider
	neighbours int
	maxAge     time.Duration
	logger     zerolog.Logger
}

// NewCollaborativeRecommender creates a recommender consulting up to
// neighbours similar users in a matrix no older than maxAge.
func NewCollaborativeRecommender(matrix MatrixProvider, neighbours int, maxAge time.Duration, logger zerolog.Logger) *CollaborativeRecommender {
	return &CollaborativeRecommender{
		matrix:     matrix,
		neighbours: neighbours,
		maxAge:     maxAge,
		logger:     logger.With().Str("component", "collaborative").Logger(),
	}
}

// FindSimilarUsers returns up to topK users with positive similarity to
// userID, most similar first. Equal similarities keep matrix insertion order.
// A user absent from the matrix has no neighbours.
func (c *CollaborativeRecommender) FindSimilarUsers(ctx context.Context, userID string, topK int) ([]SimilarUser, error) {
	m, err := c.matrix.EnsureFresh(ctx, c.maxAge)
	if err != nil {
		return nil, fmt.Errorf("load matrix: %w", err)
	}
	return findSimilarUsers(m, userID, topK), nil
}

func findSimilarUsers(m *UserItemMatrix, userID string, topK int) []SimilarUser {
	target, ok := m.Row(userID)
	if !ok || topK <= 0 {
		return []SimilarUser{}
	}

	similar := make([]SimilarUser, 0)
	for _, other := range m.Users() {
		if other == userID {
			continue
		}
		row, _ := m.Row(other)
		if sim := Similarity(target, row); sim > 0 {
			similar = append(similar, SimilarUser{UserID: other, Similarity: sim})
		}
	}

	slices.SortStableFunc(similar, func(a, b SimilarUser) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})
	if len(similar) > topK {
		similar = similar[:topK]
	}
	return similar
}

// Recommend suggests items the neighbours of userID interacted with and
// userID has not. Each item's score is the mean of similarity x weight over
// the neighbours that contributed, scaled to [0, 100]. Items whose mean is not
// positive are dropped. limit <= 0 returns every item.
func (c *CollaborativeRecommender) Recommend(ctx context.Context, userID string, limit int) ([]CollaborativeScore, error) {
	m, err := c.matrix.EnsureFresh(ctx, c.maxAge)
	if err != nil {
		return nil, fmt.Errorf("load matrix: %w", err)
	}

	target, ok := m.Row(userID)
	if !ok {
		return []CollaborativeScore{}, nil
	}
	neighbours := findSimilarUsers(m, userID, c.neighbours)
	if len(neighbours) == 0 {
		return []CollaborativeScore{}, nil
	}

	type accum struct {
		sum   float64
		count int
	}
	acc := make(map[string]*accum)
	for _, n := range neighbours {
		row, _ := m.Row(n.UserID)
		for itemID, w := range row {
			if _, seen := target[itemID]; seen {
				continue
			}
			a, ok := acc[itemID]
			if !ok {
				a = &accum{}
				acc[itemID] = a
			}
			a.sum += n.Similarity * w
			a.count++
		}
	}

	scores := make([]CollaborativeScore, 0, len(acc))
	for itemID, a := range acc {
		mean := a.sum / float64(a.count)
		if mean <= 0 {
			continue
		}
		scores = append(scores, CollaborativeScore{
			ItemID:          itemID,
			Score:           min(100, mean*100),
			SupportingUsers: a.count,
		})
	}

	slices.SortFunc(scores, func(a, b CollaborativeScore) int {
		if byScore := cmp.Compare(b.Score, a.Score); byScore != 0 {
			return byScore
		}
		return cmp.Compare(a.ItemID, b.ItemID)
	})
	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}

	c.logger.Debug().
		Str("user_id", userID).
		Int("neighbours", len(neighbours)).
		Int("items", len(scores)).
		Msg("Collaborative scores computed")

	return scores, nil
}

// ScoreItem estimates in [0, 1] how strongly the neighbours of userID
// endorse itemID, regardless of whether userID already interacted with it.
func (c *CollaborativeRecommender) ScoreItem(ctx context.Context, userID, itemID string) (float64, error) {
	m, err := c.matrix.EnsureFresh(ctx, c.maxAge)
	if err != nil {
		return 0, fmt.Errorf("load matrix: %w", err)
	}

	var sum float64
	var count int
	for _, n := range findSimilarUsers(m, userID, c.neighbours) {
		row, _ := m.Row(n.UserID)
		if w, ok := row[itemID]; ok {
			sum += n.Similarity * w
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return max(0, min(1, sum/float64(count))), nil
}
