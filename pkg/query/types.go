// ABOUTME: Query service types
// ABOUTME: Latency profile, contact profile result and shared errors

package query

import (
	"errors"
	"time"

	"github.com/nainya/commsdesk/pkg/calllog"
	"github.com/nainya/commsdesk/pkg/contact"
	"github.com/nainya/commsdesk/pkg/sms"
	"github.com/nainya/commsdesk/pkg/timeline"
)

// ErrNotFound matches every Not-Found error the engine returns
var ErrNotFound = errors.New("not found")

// notFound joins a store's sentinel with ErrNotFound so callers can test
// against either
type notFound struct {
	err error
}

func (e *notFound) Error() string { return e.err.Error() }

func (e *notFound) Unwrap() []error { return []error{e.err, ErrNotFound} }

func wrapNotFound(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, calllog.ErrNotFound) || errors.Is(err, sms.ErrNotFound) {
		return &notFound{err: err}
	}
	return err
}

// Latency is the simulated network delay per operation class
type Latency struct {
	Calls  time.Duration // call log reads and writes
	Fetch  time.Duration // thread list
	Find   time.Duration // single thread and smart replies
	Action time.Duration // sending a message
}

// DefaultLatency mirrors the delays the inbox UI was built against
func DefaultLatency() Latency {
	return Latency{
		Calls:  500 * time.Millisecond,
		Fetch:  400 * time.Millisecond,
		Find:   250 * time.Millisecond,
		Action: 300 * time.Millisecond,
	}
}

// Profile is a contact header plus their merged interaction history
type Profile struct {
	Contact  *contact.Contact       `json:"contact"`
	Timeline []timeline.Interaction `json:"timeline"`
	Counts   timeline.Counts        `json:"counts"`
}
