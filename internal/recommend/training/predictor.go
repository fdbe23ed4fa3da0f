// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package training

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tomtom215/jobrec/internal/recommend"
)

// Registered model types.
const (
	ModelContentBased  = "content_based"
	ModelCollaborative = "collaborative"
	ModelHybrid        = "hybrid"
)

var (
	// ErrNoTrainingData is returned when no user has enough interactions.
	ErrNoTrainingData = errors.New("no training data")

	// ErrUnknownModel is returned for a model type that is not registered.
	ErrUnknownModel = errors.New("unknown model type")
)

// Predictor scores a user-item pair in [0, 1].
type Predictor interface {
	Predict(ctx context.Context, user recommend.User, item recommend.Item) (float64, error)
}

// Registry maps model types to predictors, remembering registration order.
type Registry struct {
	mu         sync.RWMutex
	names      []string
	predictors map[string]Predictor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{predictors: make(map[string]Predictor)}
}

// Register adds a predictor. Registering a name twice is an error.
func (r *Registry) Register(name string, p Predictor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.predictors[name]; exists {
		return fmt.Errorf("predictor %q already registered", name)
	}
	r.names = append(r.names, name)
	r.predictors[name] = p
	return nil
}

// Get returns the predictor registered under name.
func (r *Registry) Get(name string) (Predictor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.predictors[name]
	return p, ok
}

// Names returns model types in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// ContentPredictor scales the content matcher score to [0, 1].
type ContentPredictor struct {
	Matcher recommend.ContentMatcher
}

// Predict implements Predictor.
func (p *ContentPredictor) Predict(ctx context.Context, user recommend.User, item recommend.Item) (float64, error) {
	res, err := p.Matcher.Score(ctx, user, item)
	if err != nil {
		return 0, fmt.Errorf("content score: %w", err)
	}
	return max(0, min(1, res.Score/100)), nil
}

// ItemScorer estimates neighbour endorsement of an item in [0, 1].
type ItemScorer interface {
	ScoreItem(ctx context.Context, userID, itemID string) (float64, error)
}

// CollaborativePredictor uses neighbour endorsement.
type CollaborativePredictor struct {
	Scorer ItemScorer
}

// Predict implements Predictor.
func (p *CollaborativePredictor) Predict(ctx context.Context, user recommend.User, item recommend.Item) (float64, error) {
	s, err := p.Scorer.ScoreItem(ctx, user.ID, item.ID)
	if err != nil {
		return 0, fmt.Errorf("collaborative score: %w", err)
	}
	return s, nil
}

// WeightSource chooses the per-user blend.
type WeightSource interface {
	DetermineWeights(ctx context.Context, userID string) recommend.Weights
}

// HybridPredictor blends the content and collaborative predictors with the
// same adaptive weights the online engine uses.
type HybridPredictor struct {
	Content       Predictor
	Collaborative Predictor
	Weights       WeightSource
}

// Predict implements Predictor.
func (p *HybridPredictor) Predict(ctx context.Context, user recommend.User, item recommend.Item) (float64, error) {
	c, err := p.Content.Predict(ctx, user, item)
	if err != nil {
		return 0, err
	}
	k, err := p.Collaborative.Predict(ctx, user, item)
	if err != nil {
		return 0, err
	}
	w := p.Weights.DetermineWeights(ctx, user.ID)
	return max(0, min(1, c*w.Content+k*w.Collaborative)), nil
}

// NewDefaultRegistry registers the content, collaborative and hybrid
// predictors backed by the online engine components.
func NewDefaultRegistry(matcher recommend.ContentMatcher, scorer ItemScorer, weights WeightSource) *Registry {
	content := &ContentPredictor{Matcher: matcher}
	collab := &CollaborativePredictor{Scorer: scorer}

	r := NewRegistry()
	// Names are distinct, so registration cannot fail.
	_ = r.Register(ModelContentBased, content)
	_ = r.Register(ModelCollaborative, collab)
	_ = r.Register(ModelHybrid, &HybridPredictor{Content: content, Collaborative: collab, Weights: weights})
	return r
}
