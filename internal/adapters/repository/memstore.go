package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/okian/wildcat/pkg/metrics"
)

// MemoryStore is an in-memory Store. Records are kept in insertion order.
type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[string]Record
	order    []string
	maxHeats int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{byID: make(map[string]Record)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put implements Store.
func (s *MemoryStore) Put(ctx context.Context, r Record) error { //nolint:gocritic // hugeParam: stored by value
	if r.ID == "" {
		return ErrMissingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[r.ID]; !ok {
		s.admit(r.ID)
	}
	s.byID[r.ID] = r
	metrics.UpdateHeatsStored(len(s.order))
	return nil
}

// Insert implements Store.
func (s *MemoryStore) Insert(ctx context.Context, r Record) (bool, error) { //nolint:gocritic // hugeParam: stored by value
	if r.ID == "" {
		return false, ErrMissingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[r.ID]; ok {
		return false, nil
	}
	s.admit(r.ID)
	s.byID[r.ID] = r
	metrics.UpdateHeatsStored(len(s.order))
	return true, nil
}

// admit appends id to the insertion order, evicting the oldest record when
// the store is full. Callers hold the write lock.
func (s *MemoryStore) admit(id string) {
	if s.maxHeats > 0 && len(s.order) >= s.maxHeats {
		delete(s.byID, s.order[0])
		s.order = s.order[1:]
	}
	s.order = append(s.order, id)
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]Record, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.order)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Record, n)
	for i, id := range s.order[:n] {
		out[i] = s.byID[id]
	}
	return out, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return nil
	}
	delete(s.byID, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	metrics.UpdateHeatsStored(len(s.order))
	return nil
}

// Count implements Store.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]Record)
	s.order = nil
	metrics.UpdateHeatsStored(0)
	return nil
}
