// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package recommend

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/jobrec/internal/metrics"
)

// UserItemMatrix is an immutable sparse user x item weight table.
// Each cell holds the strongest action weight the user gave the item.
type UserItemMatrix struct {
	users   []string
	rows    map[string]map[string]float64
	items   int
	builtAt time.Time
}

// NewUserItemMatrix builds a matrix from interactions. Users keep the order in
// which they first appear in the slice.
func NewUserItemMatrix(interactions []Interaction, builtAt time.Time) *UserItemMatrix {
	m := &UserItemMatrix{
		rows:    make(map[string]map[string]float64),
		builtAt: builtAt,
	}
	items := make(map[string]struct{})

	for i := range interactions {
		in := &interactions[i]
		row, ok := m.rows[in.UserID]
		if !ok {
			row = make(map[string]float64)
			m.rows[in.UserID] = row
			m.users = append(m.users, in.UserID)
		}
		w := in.Action.Weight()
		if cur, seen := row[in.ItemID]; !seen || w > cur {
			row[in.ItemID] = w
		}
		items[in.ItemID] = struct{}{}
	}
	m.items = len(items)
	return m
}

// Row returns the item weights of a user. The map must not be modified.
func (m *UserItemMatrix) Row(userID string) (map[string]float64, bool) {
	row, ok := m.rows[userID]
	return row, ok
}

// Users returns user IDs in insertion order. The slice must not be modified.
func (m *UserItemMatrix) Users() []string { return m.users }

// NumUsers returns the number of rows.
func (m *UserItemMatrix) NumUsers() int { return len(m.users) }

// NumItems returns the number of distinct items.
func (m *UserItemMatrix) NumItems() int { return m.items }

// BuiltAt returns when the snapshot was built.
func (m *UserItemMatrix) BuiltAt() time.Time { return m.builtAt }

// MatrixProvider hands out a user-item matrix no older than maxAge.
type MatrixProvider interface {
	EnsureFresh(ctx context.Context, maxAge time.Duration) (*UserItemMatrix, error)
}

// MatrixBuilder owns the current user-item matrix snapshot.
//
// Readers always observe a fully built matrix: rebuilds happen off to the side
// and are published with an atomic pointer swap. Concurrent rebuild requests
// share a single scan of the interaction store.
type MatrixBuilder struct {
	store    InteractionStore
	itemType string
	logger   zerolog.Logger
	now      func() time.Time

	current atomic.Pointer[UserItemMatrix]
	group   singleflight.Group
}

// NewMatrixBuilder creates a builder that scans interactions of itemType.
func NewMatrixBuilder(store InteractionStore, itemType string, logger zerolog.Logger) *MatrixBuilder {
	return &MatrixBuilder{
		store:    store,
		itemType: itemType,
		logger:   logger.With().Str("component", "matrix").Logger(),
		now:      time.Now,
	}
}

// Build scans all interactions, replaces the current snapshot and returns it.
// An empty interaction store produces an empty matrix.
func (b *MatrixBuilder) Build(ctx context.Context) (*UserItemMatrix, error) {
	v, err, shared := b.group.Do("build", func() (any, error) {
		return b.build(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		b.logger.Debug().Msg("Joined in-flight matrix build")
	}
	return v.(*UserItemMatrix), nil
}

func (b *MatrixBuilder) build(ctx context.Context) (*UserItemMatrix, error) {
	start := b.now()

	interactions, err := b.store.ListInteractions(ctx, InteractionFilter{ItemType: b.itemType})
	if err != nil {
		metrics.RecordMatrixBuild(time.Since(start), 0, 0, err)
		return nil, fmt.Errorf("list interactions: %w", err)
	}

	m := NewUserItemMatrix(interactions, b.now())
	b.current.Store(m)

	elapsed := time.Since(start)
	metrics.RecordMatrixBuild(elapsed, m.NumUsers(), m.NumItems(), nil)

	b.logger.Info().
		Int("users", m.NumUsers()).
		Int("items", m.NumItems()).
		Int("interactions", len(interactions)).
		Dur("duration", elapsed).
		Msg("User-item matrix built")

	return m, nil
}

// EnsureFresh returns the current snapshot, rebuilding first when there is
// none or it is older than maxAge.
func (b *MatrixBuilder) EnsureFresh(ctx context.Context, maxAge time.Duration) (*UserItemMatrix, error) {
	if m := b.current.Load(); m != nil && b.now().Sub(m.builtAt) < maxAge {
		return m, nil
	}
	return b.Build(ctx)
}

// Snapshot returns the current matrix, or nil before the first build.
func (b *MatrixBuilder) Snapshot() *UserItemMatrix {
	return b.current.Load()
}
