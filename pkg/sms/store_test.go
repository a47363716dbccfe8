// ABOUTME: Tests for the SMS thread store
// ABOUTME: Verifies append semantics and the last-message invariant

package sms

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBase = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func setupTestThreads() []*Thread {
	return []*Thread{
		{
			ContactID:     "contact-a",
			ContactName:   "Ada Lovelace",
			ContactNumber: "(555) 100-0001",
			UnreadCount:   2,
			Messages: []Message{
				{ID: "m1", Body: "Hi", Timestamp: testBase, Direction: Inbound},
				{ID: "m2", Body: "Hello back", Timestamp: testBase.Add(2 * time.Minute), Direction: Outbound},
			},
			RoutingNumber: "(555) 000-1111",
		},
		{
			ContactID:     "contact-b",
			ContactName:   "Grace Hopper",
			ContactNumber: "(555) 100-0002",
			// Stale denormalized fields must be repaired on load
			LastMessage: "stale",
			Timestamp:   testBase.Add(-time.Hour),
			Messages: []Message{
				{ID: "m3", Body: "Ping", Timestamp: testBase.Add(time.Hour), Direction: Inbound},
			},
		},
		{
			ContactID:     "contact-c",
			ContactName:   "Empty Thread",
			ContactNumber: "(555) 100-0003",
		},
	}
}

func setupTestStore() *Store {
	seq := 0
	return NewStore(setupTestThreads(), []SmartReply{{ID: "r1", Text: "Okay"}},
		WithClock(func() time.Time { return testBase.Add(3 * time.Hour) }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("msg-%d", seq)
		}),
	)
}

func TestGetThreadsAreConsistent(t *testing.T) {
	store := setupTestStore()

	for _, id := range []string{"contact-a", "contact-b", "contact-c"} {
		thread, ok := store.Get(id)
		require.True(t, ok, "expected thread %s", id)
		assert.True(t, thread.Consistent(), "thread %s: last=%q ts=%v", id, thread.LastMessage, thread.Timestamp)
	}

	b, _ := store.Get("contact-b")
	assert.Equal(t, "Ping", b.LastMessage, "stale last message should be repaired")
}

func TestGetMissingThread(t *testing.T) {
	store := setupTestStore()

	thread, ok := store.Get("nobody")
	assert.False(t, ok)
	assert.Nil(t, thread)
}

func TestAppendMessage(t *testing.T) {
	store := setupTestStore()

	updated, err := store.Append("contact-a", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.LastMessage)

	thread, _ := store.Get("contact-a")
	require.Len(t, thread.Messages, 3)

	last := thread.Messages[2]
	assert.Equal(t, "hello", last.Body)
	assert.Equal(t, Outbound, last.Direction)
	assert.Equal(t, "msg-1", last.ID)
	assert.True(t, thread.Timestamp.Equal(last.Timestamp))
	assert.True(t, thread.Consistent())
}

func TestAppendToEmptyThread(t *testing.T) {
	store := setupTestStore()

	thread, err := store.Append("contact-c", "first")
	require.NoError(t, err)
	assert.Len(t, thread.Messages, 1)
	assert.True(t, thread.Consistent())
}

func TestAppendUnknownContact(t *testing.T) {
	store := setupTestStore()
	before := store.MessageCount()

	_, err := store.Append("nobody", "hello")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, before, store.MessageCount())
}

func TestConcurrentAppendAndRead(t *testing.T) {
	store := NewStore(setupTestThreads(), nil)
	const writers = 50

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := store.Append("contact-a", fmt.Sprintf("message %d", i))
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			thread, ok := store.Get("contact-a")
			if assert.True(t, ok) {
				assert.True(t, thread.Consistent(), "reader saw a half-applied append")
			}
			for _, th := range store.List() {
				assert.True(t, th.Consistent())
			}
		}()
	}
	wg.Wait()

	thread, _ := store.Get("contact-a")
	assert.Len(t, thread.Messages, writers+2)
	assert.True(t, thread.Consistent())

	seen := make(map[string]bool)
	for _, m := range thread.Messages {
		assert.False(t, seen[m.ID], "duplicate message id %s", m.ID)
		seen[m.ID] = true
	}
}

func TestReturnedThreadIsACopy(t *testing.T) {
	store := setupTestStore()

	thread, _ := store.Get("contact-a")
	thread.Messages[0].Body = "tampered"
	thread.Messages = append(thread.Messages, Message{ID: "x"})

	fresh, _ := store.Get("contact-a")
	assert.Equal(t, "Hi", fresh.Messages[0].Body)
	assert.Len(t, fresh.Messages, 2)
}

func TestDefaultIDGenerator(t *testing.T) {
	store := NewStore(setupTestThreads(), nil)

	a, _ := store.Append("contact-a", "one")
	b, _ := store.Append("contact-a", "two")

	idA := a.Messages[len(a.Messages)-1].ID
	idB := b.Messages[len(b.Messages)-1].ID
	assert.NotEqual(t, idA, idB)
	assert.True(t, strings.HasPrefix(idA, "msg-"), "expected msg- prefix, got %s", idA)
}

func TestSmartReplies(t *testing.T) {
	store := setupTestStore()

	assert.Equal(t, []SmartReply{{ID: "r1", Text: "Okay"}}, store.SmartReplies())
}

func TestReplaceRepairsAndResets(t *testing.T) {
	store := setupTestStore()

	store.Replace([]*Thread{{ContactID: "z", LastMessage: "ghost"}, nil}, nil)

	assert.Equal(t, 1, store.Len())
	assert.Empty(t, store.SmartReplies())
	z, ok := store.Get("z")
	require.True(t, ok)
	assert.Empty(t, z.LastMessage)
	assert.True(t, z.Consistent())
}

func TestSearchAndSortByRecent(t *testing.T) {
	store := setupTestStore()
	threads := store.List()

	found := Search(threads, "grace")
	require.Len(t, found, 1)
	assert.Equal(t, "contact-b", found[0].ContactID)

	assert.Len(t, Search(threads, "100-000"), 3)
	assert.Len(t, Search(threads, ""), 3)

	SortByRecent(threads)
	order := []string{threads[0].ContactID, threads[1].ContactID, threads[2].ContactID}
	assert.Equal(t, []string{"contact-b", "contact-a", "contact-c"}, order)

	assert.Equal(t, 2, UnreadTotal(threads))
}
