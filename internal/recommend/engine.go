// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package recommend

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/jobrec/internal/metrics"
)

// Strategy names reported in response metadata and metrics.
const (
	StrategyHybrid        = "hybrid"
	StrategyContent       = "content"
	StrategyCollaborative = "collaborative"
)

// Deps are the collaborators an Engine needs. Store and Notifier are optional.
type Deps struct {
	Users        UserStore
	Items        ItemStore
	Interactions InteractionStore
	Matcher      ContentMatcher
	Store        RecommendationStore
	Notifier     Notifier
}

// Engine produces hybrid job recommendations. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger
	deps   Deps
	now    func() time.Time

	matrix  *MatrixBuilder
	collab  *CollaborativeRecommender
	blender *Blender

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// Stats are cumulative engine counters.
type Stats struct {
	Requests int64 `json:"requests"`
	Errors   int64 `json:"errors"`
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Deps, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Users == nil || deps.Items == nil || deps.Interactions == nil || deps.Matcher == nil {
		return nil, errors.New("users, items, interactions and matcher are required")
	}

	matrix := NewMatrixBuilder(deps.Interactions, cfg.ItemType, logger)
	return &Engine{
		config:  cfg,
		logger:  logger.With().Str("component", "recommend").Logger(),
		deps:    deps,
		now:     time.Now,
		matrix:  matrix,
		collab:  NewCollaborativeRecommender(matrix, cfg.Neighbours, cfg.MatrixMaxAge, logger),
		blender: NewBlender(deps.Interactions, cfg.FallbackWeights, logger),
	}, nil
}

// Matrix returns the engine's user-item matrix builder.
func (e *Engine) Matrix() *MatrixBuilder { return e.matrix }

// Collaborative returns the engine's collaborative recommender.
func (e *Engine) Collaborative() *CollaborativeRecommender { return e.collab }

// Blender returns the engine's hybrid blender.
func (e *Engine) Blender() *Blender { return e.blender }

// Config returns the engine configuration.
func (e *Engine) Config() *Config { return e.config }

// Stats returns cumulative request counters.
func (e *Engine) Stats() Stats {
	return Stats{Requests: e.requestCount.Load(), Errors: e.errorCount.Load()}
}

// Recommend generates, persists and announces hybrid recommendations.
//
// An unknown user yields an empty response. Content matcher failures on
// individual items and collaborative failures degrade the result instead of
// failing it. Persistence failures are returned; notification failures are
// only logged.
//
//nolint:gocritic // Request passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := e.now()
	e.requestCount.Add(1)
	req = e.prepareRequest(req)

	user, ok, err := e.loadUser(ctx, req.UserID)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}
	if !ok {
		return e.emptyResponse(req, StrategyHybrid, start), nil
	}

	candidates, err := e.candidates(ctx, req)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	content, failures := e.scoreContent(ctx, user, candidates)
	collab := e.collaborativeCandidates(ctx, req, candidates)
	weights := e.blender.DetermineWeights(ctx, req.UserID)

	merged := Merge(content, collab, weights.Content, weights.Collaborative)
	merged = e.dropApplied(ctx, req.UserID, merged)
	recs := rank(merged, req.MinScore, req.Limit)

	if e.deps.Store != nil {
		if err := e.deps.Store.Save(ctx, req.UserID, recs); err != nil {
			e.errorCount.Add(1)
			return nil, fmt.Errorf("save recommendations: %w", err)
		}
	}
	e.notify(ctx, req.UserID, len(recs))

	resp := &Response{
		UserID:          req.UserID,
		Recommendations: recs,
		Metadata: ResponseMetadata{
			Strategy:         StrategyHybrid,
			Weights:          weights,
			CandidatesScored: len(candidates),
			ContentFailures:  failures,
			GeneratedAt:      e.now(),
			LatencyMs:        e.now().Sub(start).Milliseconds(),
		},
	}
	metrics.RecordRecommendation(StrategyHybrid, e.now().Sub(start), len(recs))

	e.logger.Debug().
		Str("user_id", req.UserID).
		Int("candidates", len(candidates)).
		Int("returned", len(recs)).
		Float64("w_content", weights.Content).
		Float64("w_collab", weights.Collaborative).
		Int64("latency_ms", resp.Metadata.LatencyMs).
		Msg("Hybrid recommendations generated")

	return resp, nil
}

// ContentRecommendations ranks active items by the content matcher alone.
// Nothing is persisted.
//
//nolint:gocritic // Request passed by value for immutability
func (e *Engine) ContentRecommendations(ctx context.Context, req Request) (*Response, error) {
	start := e.now()
	e.requestCount.Add(1)
	req = e.prepareRequest(req)

	user, ok, err := e.loadUser(ctx, req.UserID)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}
	if !ok {
		return e.emptyResponse(req, StrategyContent, start), nil
	}

	candidates, err := e.candidates(ctx, req)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}
	content, failures := e.scoreContent(ctx, user, candidates)
	recs := rank(content, req.MinScore, req.Limit)

	metrics.RecordRecommendation(StrategyContent, e.now().Sub(start), len(recs))
	return &Response{
		UserID:          req.UserID,
		Recommendations: recs,
		Metadata: ResponseMetadata{
			Strategy:         StrategyContent,
			Weights:          Weights{Content: 1},
			CandidatesScored: len(candidates),
			ContentFailures:  failures,
			GeneratedAt:      e.now(),
			LatencyMs:        e.now().Sub(start).Milliseconds(),
		},
	}, nil
}

// CollaborativeRecommendations ranks items endorsed by similar users alone.
// Nothing is persisted and collaborative failures are returned.
//
//nolint:gocritic // Request passed by value for immutability
func (e *Engine) CollaborativeRecommendations(ctx context.Context, req Request) (*Response, error) {
	start := e.now()
	e.requestCount.Add(1)
	req = e.prepareRequest(req)

	scores, err := e.collab.Recommend(ctx, req.UserID, e.config.MaxCandidates)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("collaborative recommend: %w", err)
	}
	recs := e.keepActive(ctx, CollaborativeToRecommendations(scores), nil)
	recs = rank(recs, req.MinScore, req.Limit)

	metrics.RecordRecommendation(StrategyCollaborative, e.now().Sub(start), len(recs))
	return &Response{
		UserID:          req.UserID,
		Recommendations: recs,
		Metadata: ResponseMetadata{
			Strategy:    StrategyCollaborative,
			Weights:     Weights{Collaborative: 1},
			GeneratedAt: e.now(),
			LatencyMs:   e.now().Sub(start).Milliseconds(),
		},
	}, nil
}

//nolint:gocritic // Request passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.Limit <= 0 {
		req.Limit = e.config.DefaultLimit
	}
	if req.Limit > e.config.MaxLimit {
		req.Limit = e.config.MaxLimit
	}
	if req.ItemType == "" {
		req.ItemType = e.config.ItemType
	}
	return req
}

func (e *Engine) loadUser(ctx context.Context, userID string) (User, bool, error) {
	user, err := e.deps.Users.GetUser(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		e.logger.Debug().Str("user_id", userID).Msg("Unknown user, returning no recommendations")
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, fmt.Errorf("get user: %w", err)
	}
	return user, true, nil
}

//nolint:gocritic // Request passed by value for immutability
func (e *Engine) candidates(ctx context.Context, req Request) ([]Item, error) {
	items, err := e.deps.Items.ListActiveItems(ctx, req.ItemType, e.config.MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("list active items: %w", err)
	}
	return items, nil
}

// scoreContent runs the matcher over every candidate. Items the matcher
// fails on are skipped and counted; items scoring 0 are dropped.
func (e *Engine) scoreContent(ctx context.Context, user User, items []Item) ([]Recommendation, int) {
	recs := make([]Recommendation, 0, len(items))
	failures := 0
	for i := range items {
		res, err := e.deps.Matcher.Score(ctx, user, items[i])
		if err != nil {
			failures++
			metrics.ContentMatchFailures.Inc()
			e.logger.Warn().Err(err).
				Str("user_id", user.ID).
				Str("item_id", items[i].ID).
				Msg("Content match failed, skipping item")
			continue
		}
		if res.Score <= 0 {
			continue
		}
		score := clampScore(res.Score)
		recs = append(recs, Recommendation{
			ItemID:       items[i].ID,
			Score:        score,
			Confidence:   contentConfidence(score),
			Source:       SourceContent,
			Reasons:      res.Reasons,
			ContentScore: score,
		})
	}
	return recs, failures
}

// collaborativeCandidates returns collaborative recommendations restricted to
// items that are still active. Failures degrade to an empty list.
//
//nolint:gocritic // Request passed by value for immutability
func (e *Engine) collaborativeCandidates(ctx context.Context, req Request, candidates []Item) []Recommendation {
	scores, err := e.collab.Recommend(ctx, req.UserID, e.config.MaxCandidates)
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues("collaborative").Inc()
		e.logger.Warn().Err(err).Str("user_id", req.UserID).Msg("Collaborative scoring failed, using content only")
		return nil
	}
	known := make(map[string]struct{}, len(candidates))
	for i := range candidates {
		known[candidates[i].ID] = struct{}{}
	}
	return e.keepActive(ctx, CollaborativeToRecommendations(scores), known)
}

// keepActive drops recommendations whose item is not active. IDs in known
// are treated as active without a lookup.
func (e *Engine) keepActive(ctx context.Context, recs []Recommendation, known map[string]struct{}) []Recommendation {
	var lookup []string
	for i := range recs {
		if _, ok := known[recs[i].ItemID]; !ok {
			lookup = append(lookup, recs[i].ItemID)
		}
	}

	var items map[string]Item
	if len(lookup) > 0 {
		var err error
		items, err = e.deps.Items.ItemsByID(ctx, lookup)
		if err != nil {
			metrics.CollaboratorFailures.WithLabelValues("items").Inc()
			e.logger.Warn().Err(err).Int("items", len(lookup)).Msg("Item lookup failed, dropping unverified collaborative items")
			items = nil
		}
	}

	now := e.now()
	kept := recs[:0]
	for i := range recs {
		if _, ok := known[recs[i].ItemID]; ok {
			kept = append(kept, recs[i])
			continue
		}
		if item, ok := items[recs[i].ItemID]; ok && item.Active(now) {
			kept = append(kept, recs[i])
		}
	}
	return kept
}

// dropApplied removes items the user already applied to. A failed lookup
// leaves the list unchanged.
func (e *Engine) dropApplied(ctx context.Context, userID string, recs []Recommendation) []Recommendation {
	applied, err := e.deps.Interactions.ListInteractions(ctx, InteractionFilter{
		UserID:  userID,
		Actions: []Action{ActionApply},
	})
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues("interactions").Inc()
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("Applied-jobs lookup failed, not filtering")
		return recs
	}
	if len(applied) == 0 {
		return recs
	}

	done := make(map[string]struct{}, len(applied))
	for i := range applied {
		done[applied[i].ItemID] = struct{}{}
	}
	kept := recs[:0]
	for i := range recs {
		if _, ok := done[recs[i].ItemID]; !ok {
			kept = append(kept, recs[i])
		}
	}
	return kept
}

func (e *Engine) notify(ctx context.Context, userID string, count int) {
	if e.deps.Notifier == nil || count == 0 {
		return
	}
	msg := fmt.Sprintf("%d new job recommendations are available", count)
	if count == 1 {
		msg = "1 new job recommendation is available"
	}
	if err := e.deps.Notifier.Notify(ctx, userID, msg); err != nil {
		metrics.CollaboratorFailures.WithLabelValues("notifier").Inc()
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("Recommendation notification failed")
	}
}

//nolint:gocritic // Request passed by value for immutability
func (e *Engine) emptyResponse(req Request, strategy string, start time.Time) *Response {
	metrics.RecordRecommendation(strategy, e.now().Sub(start), 0)
	return &Response{
		UserID:          req.UserID,
		Recommendations: []Recommendation{},
		Metadata: ResponseMetadata{
			Strategy:    strategy,
			GeneratedAt: e.now(),
			LatencyMs:   e.now().Sub(start).Milliseconds(),
		},
	}
}

// rank sorts by score descending, keeping input order for equal scores, then
// applies the score floor and the limit.
func rank(recs []Recommendation, minScore float64, limit int) []Recommendation {
	slices.SortStableFunc(recs, func(a, b Recommendation) int {
		return cmp.Compare(b.Score, a.Score)
	})
	out := make([]Recommendation, 0, min(len(recs), max(limit, 0)))
	for i := range recs {
		if recs[i].Score < minScore {
			break
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, recs[i])
	}
	return out
}
