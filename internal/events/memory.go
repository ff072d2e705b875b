package events

import (
	"context"
	"sync"
)

// MemoryStore keeps the most recent events in memory. It exists because
// this core is deliberately non-durable; anything needing history across
// restarts would swap in its own Store.
type MemoryStore struct {
	mu     sync.Mutex
	events []Event
	limit  int
}

// NewMemoryStore creates a store retaining at most limit events; limit <= 0
// means unbounded.
func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{limit: limit}
}

// Append implements Store.
func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if s.limit > 0 && len(s.events) > s.limit {
		s.events = s.events[len(s.events)-s.limit:]
	}
	return nil
}

// Recent returns up to n most recent events, newest last.
func (s *MemoryStore) Recent(n int) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || n > len(s.events) {
		n = len(s.events)
	}
	out := make([]Event, n)
	copy(out, s.events[len(s.events)-n:])
	return out
}

// Len reports the number of retained events.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}
