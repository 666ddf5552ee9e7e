package store

import (
	"errors"
	"fmt"
	"sync"

	"TopicBridge/internal/domain"
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New("record not found")

// Store is the in-memory topic collection: catalog seed plus generated records, keyed by ID.
type Store struct {
	mu      sync.RWMutex
	order   []string
	records map[string]domain.Record
}

// New seeds the store with the given records in order.
func New(seed []domain.Record) *Store {
	s := &Store{records: make(map[string]domain.Record, len(seed))}
	for _, rec := range seed {
		_ = s.Add(rec)
	}
	return s
}

// Add inserts a record; IDs are never reused.
func (s *Store) Add(rec domain.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("add record: empty id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; exists {
		return fmt.Errorf("add record %s: id already stored", rec.ID)
	}
	s.records[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	return nil
}

// Get returns the record with the given ID.
func (s *Store) Get(id string) (domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return domain.Record{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return rec, nil
}

// List returns all records in insertion order.
func (s *Store) List() []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}

// Len reports how many records are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// ApplyEnrichment merges stage-2 output into the stored copy; it returns 1 if a copy was updated.
func (s *Store) ApplyEnrichment(ev domain.Enrichment) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[ev.RecordID]
	if !ok {
		return 0
	}
	merged, _ := ev.Apply(rec)
	s.records[ev.RecordID] = merged
	return 1
}
