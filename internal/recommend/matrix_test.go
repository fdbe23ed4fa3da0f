// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNewUserItemMatrix(t *testing.T) {
	t.Parallel()

	m := NewUserItemMatrix([]Interaction{
		interaction("u1", "j1", ActionApply),
		interaction("u1", "j2", ActionLike),
		interaction("u2", "j1", ActionView),
	}, time.Now())

	want := map[string]map[string]float64{
		"u1": {"j1": 1.0, "j2": 0.8},
		"u2": {"j1": 0.3},
	}
	if m.NumUsers() != len(want) {
		t.Fatalf("NumUsers() = %d, want %d", m.NumUsers(), len(want))
	}
	if m.NumItems() != 2 {
		t.Errorf("NumItems() = %d, want 2", m.NumItems())
	}
	for user, items := range want {
		row, ok := m.Row(user)
		if !ok {
			t.Fatalf("Row(%s) missing", user)
		}
		if len(row) != len(items) {
			t.Errorf("Row(%s) has %d items, want %d", user, len(row), len(items))
		}
		for item, w := range items {
			if row[item] != w {
				t.Errorf("matrix[%s][%s] = %v, want %v", user, item, row[item], w)
			}
		}
	}
}

func TestNewUserItemMatrix_KeepsMaxWeight(t *testing.T) {
	t.Parallel()

	m := NewUserItemMatrix([]Interaction{
		interaction("u1", "j1", ActionView),
		interaction("u1", "j1", ActionApply),
		interaction("u1", "j1", ActionIgnore),
		interaction("u1", "j2", ActionIgnore),
	}, time.Now())

	row, _ := m.Row("u1")
	if row["j1"] != 1.0 {
		t.Errorf("j1 weight = %v, want 1.0 (max of view, apply, ignore)", row["j1"])
	}
	if row["j2"] != -0.5 {
		t.Errorf("j2 weight = %v, want -0.5", row["j2"])
	}
}

func TestNewUserItemMatrix_InsertionOrder(t *testing.T) {
	t.Parallel()

	m := NewUserItemMatrix([]Interaction{
		interaction("u3", "j1", ActionView),
		interaction("u1", "j1", ActionView),
		interaction("u3", "j2", ActionView),
		interaction("u2", "j1", ActionView),
	}, time.Now())

	want := []string{"u3", "u1", "u2"}
	got := m.Users()
	if len(got) != len(want) {
		t.Fatalf("Users() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Users()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestMatrixBuilder_Build(t *testing.T) {
	t.Parallel()

	t.Run("empty store gives empty matrix", func(t *testing.T) {
		t.Parallel()
		b := NewMatrixBuilder(&mockStore{}, "job", zerolog.Nop())
		m, err := b.Build(context.Background())
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if m.NumUsers() != 0 || m.NumItems() != 0 {
			t.Errorf("expected empty matrix, got %d users, %d items", m.NumUsers(), m.NumItems())
		}
		if b.Snapshot() != m {
			t.Error("Snapshot() should return the built matrix")
		}
	})

	t.Run("filters by item type", func(t *testing.T) {
		t.Parallel()
		course := interaction("u2", "c1", ActionApply)
		course.ItemType = "course"
		store := &mockStore{interactions: []Interaction{interaction("u1", "j1", ActionApply), course}}

		m, err := NewMatrixBuilder(store, "job", zerolog.Nop()).Build(context.Background())
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if _, ok := m.Row("u2"); ok {
			t.Error("course interaction should not be in the job matrix")
		}
	})

	t.Run("store error keeps previous snapshot", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{interactions: []Interaction{interaction("u1", "j1", ActionApply)}}
		b := NewMatrixBuilder(store, "job", zerolog.Nop())
		first, err := b.Build(context.Background())
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		store.listErr = errors.New("database locked")
		if _, err := b.Build(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if b.Snapshot() != first {
			t.Error("failed build must not replace the snapshot")
		}
	})
}

func TestMatrixBuilder_EnsureFresh(t *testing.T) {
	t.Parallel()

	store := &mockStore{interactions: []Interaction{interaction("u1", "j1", ActionApply)}}
	b := NewMatrixBuilder(store, "job", zerolog.Nop())

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	first, err := b.EnsureFresh(context.Background(), time.Hour)
	if err != nil {
		t.Fatalf("EnsureFresh() error = %v", err)
	}
	if store.listCalls.Load() != 1 {
		t.Fatalf("expected initial build, got %d scans", store.listCalls.Load())
	}

	now = now.Add(30 * time.Minute)
	second, _ := b.EnsureFresh(context.Background(), time.Hour)
	if second != first || store.listCalls.Load() != 1 {
		t.Error("fresh snapshot should be reused")
	}

	now = now.Add(time.Hour)
	third, _ := b.EnsureFresh(context.Background(), time.Hour)
	if third == first || store.listCalls.Load() != 2 {
		t.Error("stale snapshot should be rebuilt")
	}
}

func TestMatrixBuilder_ConcurrentBuildsShareScan(t *testing.T) {
	t.Parallel()

	store := &mockStore{
		interactions: []Interaction{interaction("u1", "j1", ActionApply)},
		gate:         make(chan struct{}),
	}
	b := NewMatrixBuilder(store, "job", zerolog.Nop())

	const callers = 8
	results := make([]*UserItemMatrix, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := b.Build(context.Background())
			if err != nil {
				t.Errorf("Build() error = %v", err)
				return
			}
			results[i] = m
		}(i)
	}

	// Let every caller reach the in-flight build before releasing it.
	time.Sleep(100 * time.Millisecond)
	close(store.gate)
	wg.Wait()

	if got := store.listCalls.Load(); got != 1 {
		t.Errorf("interaction store scanned %d times, want 1", got)
	}
	for i := 1; i < callers; i++ {
		if results[i] != results[0] {
			t.Errorf("caller %d received a different matrix", i)
		}
	}
}
