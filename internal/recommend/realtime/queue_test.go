// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package realtime

import (
	"fmt"
	"testing"
)

func TestUserQueue_FIFOAcrossWrap(t *testing.T) {
	t.Parallel()

	q := newUserQueue(3)
	q.Push("u1")
	q.Push("u2")
	if got, _ := q.Pop(); got != "u1" {
		t.Fatalf("Pop() = %q, want u1", got)
	}
	q.Push("u3")
	q.Push("u4") // wraps to the freed slot

	for _, want := range []string{"u2", "u3", "u4"} {
		got, ok := q.Pop()
		if !ok || got != want {
			t.Fatalf("Pop() = (%q, %v), want %q", got, ok, want)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop() on empty queue should report false")
	}
}

func TestUserQueue_GrowsWhenFull(t *testing.T) {
	t.Parallel()

	q := newUserQueue(2)
	q.Push("u0")
	q.Pop()
	for i := 1; i <= 5; i++ {
		q.Push(fmt.Sprintf("u%d", i))
	}
	if q.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", q.Len())
	}
	for i := 1; i <= 5; i++ {
		if got, _ := q.Pop(); got != fmt.Sprintf("u%d", i) {
			t.Fatalf("Pop() = %q, want u%d", got, i)
		}
	}
}

func TestUserQueue_SustainedTrafficKeepsCapacity(t *testing.T) {
	t.Parallel()

	q := newUserQueue(4)
	for i := 0; i < 10000; i++ {
		q.Push(fmt.Sprintf("u%d", i))
		q.Push(fmt.Sprintf("v%d", i))
		q.Pop()
		q.Pop()
	}
	if len(q.buf) != 4 {
		t.Errorf("buffer length = %d, want 4 after balanced traffic", len(q.buf))
	}
	for i, v := range q.buf {
		if v != "" {
			t.Errorf("slot %d still holds %q after pop", i, v)
		}
	}
}
