package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/matzehuels/albumgrid/pkg/errors"
)

// MemoryStore keeps records in memory. It is safe for concurrent use.
// Records are deep-copied on the way in and out, so callers may mutate them.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

// Save inserts or replaces a record.
func (s *MemoryStore) Save(_ context.Context, rec *Record) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec.Clone()
	return nil
}

// Get retrieves a record by ID.
func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	if err := errors.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, notFound(id)
	}
	return rec.Clone(), nil
}

// List returns up to limit records, newest first. Ties are broken by ID so
// that the order is stable.
func (s *MemoryStore) List(_ context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	s.mu.RLock()
	out := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a record.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	if err := errors.ValidateLayoutID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return notFound(id)
	}
	delete(s.records, id)
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
