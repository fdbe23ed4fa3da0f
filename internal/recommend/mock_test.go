// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package recommend

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// mockStore implements InteractionStore, ItemStore and UserStore for testing.
type mockStore struct {
	mu           sync.Mutex
	interactions []Interaction
	items        []Item
	users        map[string]User

	listErr  error
	countErr error
	itemsErr error
	userErr  error

	listCalls atomic.Int32
	gate      chan struct{} // when set, ListInteractions blocks until closed
}

func (m *mockStore) ListInteractions(ctx context.Context, f InteractionFilter) ([]Interaction, error) {
	m.listCalls.Add(1)
	if m.gate != nil {
		<-m.gate
	}
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Interaction
	for _, in := range m.interactions {
		if f.UserID != "" && in.UserID != f.UserID {
			continue
		}
		if f.ItemType != "" && in.ItemType != f.ItemType {
			continue
		}
		if len(f.Actions) > 0 && !slices.Contains(f.Actions, in.Action) {
			continue
		}
		out = append(out, in)
	}
	return out, nil
}

func (m *mockStore) LogInteraction(ctx context.Context, in Interaction) (Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interactions = append(m.interactions, in)
	return in, nil
}

func (m *mockStore) CountInteractions(ctx context.Context, userID string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, in := range m.interactions {
		if in.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *mockStore) ListActiveItems(ctx context.Context, itemType string, limit int) ([]Item, error) {
	if m.itemsErr != nil {
		return nil, m.itemsErr
	}
	var out []Item
	for _, it := range m.items {
		if it.Type == itemType && it.Active(time.Now()) {
			out = append(out, it)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockStore) ItemsByID(ctx context.Context, ids []string) (map[string]Item, error) {
	if m.itemsErr != nil {
		return nil, m.itemsErr
	}
	out := make(map[string]Item)
	for _, it := range m.items {
		if slices.Contains(ids, it.ID) {
			out[it.ID] = it
		}
	}
	return out, nil
}

func (m *mockStore) GetUser(ctx context.Context, userID string) (User, error) {
	if m.userErr != nil {
		return User{}, m.userErr
	}
	u, ok := m.users[userID]
	if !ok {
		return User{}, fmt.Errorf("user %s: %w", userID, ErrUserNotFound)
	}
	return u, nil
}

// mockMatcher returns fixed scores per item ID.
type mockMatcher struct {
	scores map[string]float64
	fail   map[string]bool
}

func (m *mockMatcher) Score(ctx context.Context, user User, item Item) (MatchResult, error) {
	if m.fail[item.ID] {
		return MatchResult{}, fmt.Errorf("matcher unavailable for %s", item.ID)
	}
	return MatchResult{Score: m.scores[item.ID], Reasons: []string{"skills match"}}, nil
}

type mockRecStore struct {
	mu    sync.Mutex
	saved map[string][]Recommendation
	err   error
}

func (m *mockRecStore) Save(ctx context.Context, userID string, recs []Recommendation) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		m.saved = make(map[string][]Recommendation)
	}
	m.saved[userID] = recs
	return nil
}

type mockNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (m *mockNotifier) Notify(ctx context.Context, userID, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, userID+": "+message)
	return m.err
}

func interaction(user, item string, action Action) Interaction {
	return Interaction{UserID: user, ItemID: item, ItemType: "job", Action: action, Timestamp: time.Now()}
}

func job(id string) Item {
	return Item{ID: id, Type: "job", Title: "Job " + id, Status: ItemStatusActive}
}
