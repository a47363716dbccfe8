// ABOUTME: Contact annotation store
// ABOUTME: Per-contact tags and free-form attributes kept in memory

package contact

import (
	"sort"
	"sync"
)

// annotation holds everything stored for one contact
type annotation struct {
	tags       []string
	attributes map[string]string
}

// Store manages tags and custom attributes keyed by contact ID
type Store struct {
	mu      sync.RWMutex
	entries map[string]*annotation
}

// NewStore creates an empty annotation store
func NewStore() *Store {
	return &Store{entries: make(map[string]*annotation)}
}

func (s *Store) entry(contactID string) *annotation {
	a, ok := s.entries[contactID]
	if !ok {
		a = &annotation{attributes: make(map[string]string)}
		s.entries[contactID] = a
	}
	return a
}

// SetTags replaces the tags of a contact. A nil slice restores the defaults.
func (s *Store) SetTags(contactID string, tags []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tags == nil {
		s.entry(contactID).tags = nil
		return
	}
	s.entry(contactID).tags = append([]string{}, tags...)
}

// Tags returns the stored tags, or DefaultTags when none were set
func (s *Store) Tags(contactID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.entries[contactID]; ok && a.tags != nil {
		return append([]string{}, a.tags...)
	}
	return append([]string{}, DefaultTags...)
}

// SetAttributes merges attrs into a contact's attributes. An empty value
// removes the key.
func (s *Store) SetAttributes(contactID string, attrs map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.entry(contactID)
	for k, v := range attrs {
		if v == "" {
			delete(a.attributes, k)
			continue
		}
		a.attributes[k] = v
	}
}

// Attributes returns a copy of all attributes for a contact
func (s *Store) Attributes(contactID string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string)
	if a, ok := s.entries[contactID]; ok {
		for k, v := range a.attributes {
			out[k] = v
		}
	}
	return out
}

// AttributeKeys returns attribute keys in sorted order
func (s *Store) AttributeKeys(contactID string) []string {
	attrs := s.Attributes(contactID)
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Delete removes every annotation for a contact
func (s *Store) Delete(contactID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, contactID)
}

// Retain deletes annotations of every contact not in keep and returns
// how many were removed
func (s *Store) Retain(keep []string) int {
	wanted := make(map[string]bool, len(keep))
	for _, id := range keep {
		wanted[id] = true
	}

	s.mu.RLock()
	var stale []string
	for id := range s.entries {
		if !wanted[id] {
			stale = append(stale, id)
		}
	}
	s.mu.RUnlock()

	for _, id := range stale {
		s.Delete(id)
	}
	return len(stale)
}

// Annotate fills tags and attributes on c from the store
func (s *Store) Annotate(c *Contact) *Contact {
	c.Tags = s.Tags(c.ID)
	if attrs := s.Attributes(c.ID); len(attrs) > 0 {
		c.Attributes = attrs
	}
	return c
}
