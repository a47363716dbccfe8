// ABOUTME: In-memory SMS thread store
// ABOUTME: Append is the only writer of a thread's message sequence

package sms

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds SMS threads and the smart reply catalogue
type Store struct {
	mu      sync.RWMutex
	threads []*Thread
	index   map[string]int
	replies []SmartReply

	now   func() time.Time
	newID func() string
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the clock used to timestamp outbound messages
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides message ID generation
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore creates a thread store from copies of threads and replies
func NewStore(threads []*Thread, replies []SmartReply, opts ...Option) *Store {
	s := &Store{
		now:   time.Now,
		newID: func() string { return "msg-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Replace(threads, replies)
	return s
}

// Replace swaps the whole data set. Denormalized fields are re-derived
// so every stored thread starts out consistent.
func (s *Store) Replace(threads []*Thread, replies []SmartReply) {
	stored := make([]*Thread, 0, len(threads))
	index := make(map[string]int, len(threads))
	for _, t := range threads {
		if t == nil {
			continue
		}
		cp := t.Clone()
		cp.syncDerived()
		index[cp.ContactID] = len(stored)
		stored = append(stored, cp)
	}

	s.mu.Lock()
	s.threads = stored
	s.index = index
	s.replies = append([]SmartReply(nil), replies...)
	s.mu.Unlock()
}

// List returns a snapshot of all threads. No ordering is guaranteed;
// use SortByRecent for most-recent-first display.
func (s *Store) List() []*Thread {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Thread, len(s.threads))
	for i, t := range s.threads {
		out[i] = t.Clone()
	}
	return out
}

// Get looks up a thread by contact ID. A missing thread is not an error.
func (s *Store) Get(contactID string) (*Thread, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[contactID]
	if !ok {
		return nil, false
	}
	return s.threads[i].Clone(), true
}

// SmartReplies returns the canned reply catalogue
func (s *Store) SmartReplies() []SmartReply {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]SmartReply(nil), s.replies...)
}

// Append adds an outbound message to the contact's thread and updates
// LastMessage and Timestamp under the same lock.
func (s *Store) Append(contactID, body string) (*Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[contactID]
	if !ok {
		return nil, fmt.Errorf("thread %s: %w", contactID, ErrNotFound)
	}

	msg := Message{
		ID:        s.newID(),
		Body:      body,
		Timestamp: s.now(),
		Direction: Outbound,
	}

	t := s.threads[i]
	t.Messages = append(t.Messages, msg)
	t.LastMessage = msg.Body
	t.Timestamp = msg.Timestamp

	return t.Clone(), nil
}

// Len returns the number of threads
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.threads)
}

// MessageCount returns the number of messages across all threads
func (s *Store) MessageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, t := range s.threads {
		n += len(t.Messages)
	}
	return n
}
