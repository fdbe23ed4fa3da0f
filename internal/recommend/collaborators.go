// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package recommend

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned by UserStore implementations for unknown users.
var ErrUserNotFound = errors.New("user not found")

// InteractionStore reads and records user-item interactions.
type InteractionStore interface {
	// ListInteractions returns matching interactions ordered by timestamp.
	ListInteractions(ctx context.Context, filter InteractionFilter) ([]Interaction, error)

	// LogInteraction records an interaction. A repeat of the same
	// (user, item, action) within five minutes is merged into the
	// existing row and the merged row is returned.
	LogInteraction(ctx context.Context, in Interaction) (Interaction, error)

	// CountInteractions returns the total number of interactions of a user.
	CountInteractions(ctx context.Context, userID string) (int, error)
}

// ItemStore provides candidate items.
type ItemStore interface {
	// ListActiveItems returns up to limit active, unexpired items of itemType.
	ListActiveItems(ctx context.Context, itemType string, limit int) ([]Item, error)

	// ItemsByID returns the items that exist among ids, keyed by ID.
	ItemsByID(ctx context.Context, ids []string) (map[string]Item, error)
}

// UserStore provides user profiles.
type UserStore interface {
	// GetUser returns ErrUserNotFound (possibly wrapped) for unknown users.
	GetUser(ctx context.Context, userID string) (User, error)
}

// ContentMatcher scores how well an item fits a user's profile.
type ContentMatcher interface {
	Score(ctx context.Context, user User, item Item) (MatchResult, error)
}

// RecommendationStore persists generated recommendations.
type RecommendationStore interface {
	Save(ctx context.Context, userID string, recs []Recommendation) error
}

// Notifier tells a user that new recommendations are available.
type Notifier interface {
	Notify(ctx context.Context, userID, message string) error
}
