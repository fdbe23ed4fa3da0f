// Jobrec - Hybrid Job Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobrec

package realtime

// userQueue is a FIFO of user IDs backed by a ring buffer, so popping does
// not pin the consumed prefix of a slice. It grows only when a push finds it
// full.
type userQueue struct {
	buf  []string
	head int
	size int
}

func newUserQueue(capacity int) *userQueue {
	return &userQueue{buf: make([]string, max(capacity, 1))}
}

func (q *userQueue) Len() int { return q.size }

func (q *userQueue) Push(userID string) {
	if q.size == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.size)%len(q.buf)] = userID
	q.size++
}

// Pop removes and returns the oldest user ID.
func (q *userQueue) Pop() (string, bool) {
	if q.size == 0 {
		return "", false
	}
	userID := q.buf[q.head]
	q.buf[q.head] = ""
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return userID, true
}

func (q *userQueue) grow() {
	buf := make([]string, 2*len(q.buf))
	for i := 0; i < q.size; i++ {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = buf
	q.head = 0
}
