// ABOUTME: In-memory call log store
// ABOUTME: Owns call records and hands out snapshot copies

package calllog

import (
	"fmt"
	"sync"
)

// Store holds the authoritative call records in insertion order
type Store struct {
	mu    sync.RWMutex
	calls []*CallRecord
	index map[string]int
}

// NewStore creates a store seeded with copies of calls
func NewStore(calls []*CallRecord) *Store {
	s := &Store{}
	s.Replace(calls)
	return s
}

// Replace swaps the whole data set, e.g. after a fixture reload
func (s *Store) Replace(calls []*CallRecord) {
	stored := make([]*CallRecord, 0, len(calls))
	index := make(map[string]int, len(calls))
	for _, c := range calls {
		if c == nil {
			continue
		}
		index[c.ID] = len(stored)
		stored = append(stored, c.Clone())
	}

	s.mu.Lock()
	s.calls = stored
	s.index = index
	s.mu.Unlock()
}

// List returns a snapshot copy of every call in insertion order
func (s *Store) List() []*CallRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*CallRecord, len(s.calls))
	for i, c := range s.calls {
		out[i] = c.Clone()
	}
	return out
}

// Get retrieves a call by ID
func (s *Store) Get(id string) (*CallRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("call %s: %w", id, ErrNotFound)
	}
	return s.calls[i].Clone(), nil
}

// SetQualification updates the qualification flag in place and returns
// the updated copy. Unknown IDs leave the store untouched.
func (s *Store) SetQualification(id string, qualified bool) (*CallRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("call %s: %w", id, ErrNotFound)
	}
	s.calls[i].IsQualified = qualified
	return s.calls[i].Clone(), nil
}

// FindByNumber returns the calls where number is the caller or dialed party
func (s *Store) FindByNumber(number string) []*CallRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*CallRecord
	for _, c := range s.calls {
		if c.Involves(number) {
			out = append(out, c.Clone())
		}
	}
	return out
}

// Len returns the number of stored calls
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.calls)
}

// QualifiedCount returns how many calls are flagged as qualified
func (s *Store) QualifiedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, c := range s.calls {
		if c.IsQualified {
			n++
		}
	}
	return n
}
