// ABOUTME: Query and mutation service over the in-memory stores
// ABOUTME: Every operation waits a simulated latency before touching data

package query

import (
	"context"
	"fmt"
	"time"

	"github.com/nainya/commsdesk/internal/logger"
	"github.com/nainya/commsdesk/internal/metrics"
	"github.com/nainya/commsdesk/pkg/calllog"
	"github.com/nainya/commsdesk/pkg/contact"
	"github.com/nainya/commsdesk/pkg/sms"
	"github.com/nainya/commsdesk/pkg/timeline"
)

// Engine exposes the call log, inbox and profile operations
type Engine struct {
	calls    *calllog.Store
	threads  *sms.Store
	contacts *contact.Store

	latency Latency
	log     *logger.Logger
	metrics *metrics.Metrics
}

// Option configures an Engine
type Option func(*Engine)

// WithLatency sets the simulated latency profile
func WithLatency(l Latency) Option {
	return func(e *Engine) { e.latency = l }
}

// WithLogger sets the logger used for store operations
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an engine over the given stores. Latency defaults to zero.
func NewEngine(calls *calllog.Store, threads *sms.Store, contacts *contact.Store, opts ...Option) *Engine {
	e := &Engine{
		calls:    calls,
		threads:  threads,
		contacts: contacts,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.RefreshStats()
	return e
}

// Calls returns the call store
func (e *Engine) Calls() *calllog.Store { return e.calls }

// Threads returns the thread store
func (e *Engine) Threads() *sms.Store { return e.threads }

// Contacts returns the contact annotation store
func (e *Engine) Contacts() *contact.Store { return e.contacts }

// wait blocks for d or until ctx ends
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// observe logs and records one finished operation
func (e *Engine) observe(op string, start time.Time, count int, err error) {
	duration := time.Since(start)
	status := "success"
	if err != nil {
		status = "error"
	}
	e.metrics.RecordStoreOperation(op, status, duration)
	e.log.StoreLogger(op).LogStoreOperation(duration, count, err)
}

// RefreshStats pushes current store sizes to the metrics gauges
func (e *Engine) RefreshStats() {
	e.metrics.UpdateStoreStats(e.calls.Len(), e.calls.QualifiedCount(), e.threads.Len(), e.threads.MessageCount())
}

// Reload swaps in a new data set. Annotations of contacts that no longer
// have a thread are dropped.
func (e *Engine) Reload(calls []*calllog.CallRecord, threads []*sms.Thread, replies []sms.SmartReply) {
	e.calls.Replace(calls)
	e.threads.Replace(threads, replies)

	ids := make([]string, 0, len(threads))
	for _, t := range threads {
		ids = append(ids, t.ContactID)
	}
	if dropped := e.contacts.Retain(ids); dropped > 0 {
		e.log.StoreLogger("Reload").Info("Dropped stale contact annotations").Int("contacts", dropped).Send()
	}

	e.RefreshStats()
}

// ListCalls returns a snapshot of all calls in store order
func (e *Engine) ListCalls(ctx context.Context) ([]*calllog.CallRecord, error) {
	start := time.Now()
	if err := wait(ctx, e.latency.Calls); err != nil {
		e.observe("ListCalls", start, 0, err)
		return nil, err
	}

	calls := e.calls.List()
	e.observe("ListCalls", start, len(calls), nil)
	return calls, nil
}

// SetQualification sets a call's qualification flag and returns the
// updated copy. Nothing changes if ctx ends during the latency wait.
func (e *Engine) SetQualification(ctx context.Context, callID string, qualified bool) (*calllog.CallRecord, error) {
	start := time.Now()
	if err := wait(ctx, e.latency.Calls); err != nil {
		e.observe("SetQualification", start, 0, err)
		return nil, err
	}

	call, err := e.calls.SetQualification(callID, qualified)
	if err != nil {
		err = wrapNotFound(err)
		e.observe("SetQualification", start, 0, err)
		return nil, err
	}

	e.metrics.RecordQualificationChange(qualified)
	e.RefreshStats()
	e.observe("SetQualification", start, 1, nil)
	return call, nil
}

// ListThreads returns a snapshot of all threads. Order is not part of the
// contract; sort with sms.SortByRecent for display.
func (e *Engine) ListThreads(ctx context.Context) ([]*sms.Thread, error) {
	start := time.Now()
	if err := wait(ctx, e.latency.Fetch); err != nil {
		e.observe("ListThreads", start, 0, err)
		return nil, err
	}

	threads := e.threads.List()
	e.observe("ListThreads", start, len(threads), nil)
	return threads, nil
}

// GetThread looks up a contact's thread. A missing thread reports
// found=false with a nil error.
func (e *Engine) GetThread(ctx context.Context, contactID string) (*sms.Thread, bool, error) {
	start := time.Now()
	if err := wait(ctx, e.latency.Find); err != nil {
		e.observe("GetThread", start, 0, err)
		return nil, false, err
	}

	thread, ok := e.threads.Get(contactID)
	count := 0
	if ok {
		count = 1
	}
	e.observe("GetThread", start, count, nil)
	return thread, ok, nil
}

// ListSmartReplies returns the canned reply catalogue
func (e *Engine) ListSmartReplies(ctx context.Context) ([]sms.SmartReply, error) {
	start := time.Now()
	if err := wait(ctx, e.latency.Find); err != nil {
		e.observe("ListSmartReplies", start, 0, err)
		return nil, err
	}

	replies := e.threads.SmartReplies()
	e.observe("ListSmartReplies", start, len(replies), nil)
	return replies, nil
}

// AppendMessage sends an outbound message on a contact's thread and
// returns the updated thread.
func (e *Engine) AppendMessage(ctx context.Context, contactID, body string) (*sms.Thread, error) {
	start := time.Now()
	if err := wait(ctx, e.latency.Action); err != nil {
		e.observe("AppendMessage", start, 0, err)
		return nil, err
	}

	thread, err := e.threads.Append(contactID, body)
	if err != nil {
		err = wrapNotFound(err)
		e.observe("AppendMessage", start, 0, err)
		return nil, err
	}

	e.metrics.RecordMessageSent()
	e.RefreshStats()
	e.observe("AppendMessage", start, 1, nil)
	return thread, nil
}

// ContactProfile builds the profile page for a contact: header details
// from their thread and every call and message merged newest first.
// Calls are matched by exact contact number.
func (e *Engine) ContactProfile(ctx context.Context, contactID string) (*Profile, bool, error) {
	thread, ok, err := e.GetThread(ctx, contactID)
	if err != nil || !ok {
		return nil, false, err
	}

	start := time.Now()
	if err := wait(ctx, e.latency.Calls); err != nil {
		e.observe("ContactProfile", start, 0, err)
		return nil, false, err
	}

	contactCalls := e.calls.FindByNumber(thread.ContactNumber)
	items := timeline.Merge(contactCalls, thread.Messages)
	e.metrics.RecordTimelineBuild(len(items))
	e.observe("ContactProfile", start, len(items), nil)

	return &Profile{
		Contact:  e.contacts.Annotate(contact.FromThread(thread)),
		Timeline: items,
		Counts:   timeline.Count(items),
	}, true, nil
}

// SetContactTags replaces the tags shown on a contact's profile
func (e *Engine) SetContactTags(ctx context.Context, contactID string, tags []string) error {
	start := time.Now()
	if err := wait(ctx, e.latency.Action); err != nil {
		e.observe("SetContactTags", start, 0, err)
		return err
	}

	if _, ok := e.threads.Get(contactID); !ok {
		err := wrapNotFound(fmt.Errorf("thread %s: %w", contactID, sms.ErrNotFound))
		e.observe("SetContactTags", start, 0, err)
		return err
	}

	e.contacts.SetTags(contactID, tags)
	e.observe("SetContactTags", start, len(tags), nil)
	return nil
}

// SetContactAttributes merges free-form attributes into a contact's
// profile. An empty value removes the key.
func (e *Engine) SetContactAttributes(ctx context.Context, contactID string, attrs map[string]string) (map[string]string, error) {
	start := time.Now()
	if err := wait(ctx, e.latency.Action); err != nil {
		e.observe("SetContactAttributes", start, 0, err)
		return nil, err
	}

	if _, ok := e.threads.Get(contactID); !ok {
		err := wrapNotFound(fmt.Errorf("thread %s: %w", contactID, sms.ErrNotFound))
		e.observe("SetContactAttributes", start, 0, err)
		return nil, err
	}

	e.contacts.SetAttributes(contactID, attrs)
	stored := e.contacts.Attributes(contactID)
	e.observe("SetContactAttributes", start, len(stored), nil)
	return stored, nil
}
