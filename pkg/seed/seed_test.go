package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{Calls: 25, Threads: 12, Seed: 42, Now: fixedNow}
}

func TestGenerateShape(t *testing.T) {
	ds := Generate(testOptions())

	require.Len(t, ds.Calls, 25)
	require.Len(t, ds.Threads, 12)
	require.Len(t, ds.SmartReplies, 8)
	require.NoError(t, ds.Validate())

	for _, c := range ds.Calls {
		assert.GreaterOrEqual(t, len(c.Transcript), 5)
		assert.LessOrEqual(t, len(c.Transcript), 20)
		assert.Positive(t, c.DurationSeconds())
		assert.False(t, c.Timestamp.After(fixedNow))
		assert.True(t, c.Timestamp.After(fixedNow.Add(-24*time.Hour)))
	}

	for _, th := range ds.Threads {
		assert.GreaterOrEqual(t, len(th.Messages), 5)
		assert.LessOrEqual(t, len(th.Messages), 10)
		assert.True(t, th.Consistent(), "thread %s inconsistent", th.ContactID)
		assert.LessOrEqual(t, th.UnreadCount, 3)
		assert.NotEmpty(t, th.RoutingNumber)

		for j := 1; j < len(th.Messages); j++ {
			gap := th.Messages[j].Timestamp.Sub(th.Messages[j-1].Timestamp)
			assert.Equal(t, 2*time.Minute, gap)
		}
	}

	for i := 1; i < len(ds.Threads); i++ {
		assert.False(t, ds.Threads[i].Timestamp.After(ds.Threads[i-1].Timestamp), "threads not most recent first")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(testOptions())
	b := Generate(testOptions())

	require.Equal(t, len(a.Calls), len(b.Calls))
	for i := range a.Calls {
		assert.Equal(t, a.Calls[i].ID, b.Calls[i].ID)
		assert.Equal(t, a.Calls[i].Summary, b.Calls[i].Summary)
	}
	assert.Equal(t, a.Threads[0].ContactID, b.Threads[0].ContactID)

	other := testOptions()
	other.Seed = 7
	c := Generate(other)
	assert.NotEqual(t, a.Calls[0].ID, c.Calls[0].ID)
}

func TestGenerateLinksCallsToContacts(t *testing.T) {
	ds := Generate(testOptions())

	numbers := make(map[string]bool)
	for _, th := range ds.Threads {
		numbers[th.ContactNumber] = true
	}

	linked := 0
	for _, c := range ds.Calls {
		if numbers[c.CallerNumber] || numbers[c.DialedNumber] {
			linked++
		}
	}
	assert.Positive(t, linked)
}

func TestWriteAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures", "seed.json")
	ds := Generate(Options{Calls: 3, Threads: 2, Seed: 3, Now: fixedNow})

	require.NoError(t, WriteFile(path, ds))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, loaded.Calls, 3)
	require.Len(t, loaded.Threads, 2)

	assert.Equal(t, ds.Calls[0].ID, loaded.Calls[0].ID)
	assert.True(t, ds.Calls[0].Timestamp.Equal(loaded.Calls[0].Timestamp))
	assert.Equal(t, ds.Threads[1].Messages, loaded.Threads[1].Messages)
	assert.Equal(t, ds.Threads[0].CallToTextContext, loaded.Threads[0].CallToTextContext)
}

func TestLoadFileDefaultsAndValidation(t *testing.T) {
	dir := t.TempDir()

	minimal := filepath.Join(dir, "minimal.json")
	require.NoError(t, os.WriteFile(minimal, []byte(`{"calls":[],"threads":[{"contactId":"c1","contactName":"A B","contactNumber":"1","messages":[]}]}`), 0644))

	ds, err := LoadFile(minimal)
	require.NoError(t, err)
	assert.Len(t, ds.SmartReplies, 8)
	assert.Equal(t, "reply-1", ds.SmartReplies[0].ID)

	dup := filepath.Join(dir, "dup.json")
	require.NoError(t, os.WriteFile(dup, []byte(`{"calls":[{"id":"x"},{"id":"x"}]}`), 0644))
	_, err = LoadFile(dup)
	assert.ErrorContains(t, err, "duplicate call id x")

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{not json`), 0644))
	_, err = LoadFile(broken)
	assert.ErrorContains(t, err, "parsing seed file")

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "reading seed file")
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, WriteFile(path, Generate(Options{Calls: 1, Threads: 1, Seed: 1, Now: fixedNow})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loaded := make(chan *Dataset, 16)
	require.NoError(t, Watch(ctx, path, func(ds *Dataset, err error) {
		// Partial writes can surface as parse errors before the final event
		if err == nil {
			loaded <- ds
		}
	}))

	require.NoError(t, WriteFile(path, Generate(Options{Calls: 4, Threads: 2, Seed: 2, Now: fixedNow})))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case ds := <-loaded:
			if len(ds.Calls) == 4 {
				return
			}
		case <-timeout:
			t.Fatal("Timed out waiting for reload")
		}
	}
}
