// ABOUTME: SMS inbox data model
// ABOUTME: Threads own an append-only message sequence per contact

package sms

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a contact identifier matches no thread
var ErrNotFound = errors.New("not found")

// Direction of a message relative to the business
type Direction string

const (
	Inbound  Direction = "inbound"
	Outbound Direction = "outbound"
)

// Message is a single SMS in a thread. Immutable once created.
type Message struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
	Direction Direction `json:"direction"`
}

// Thread is the running conversation with one contact
type Thread struct {
	ContactID         string    `json:"contactId"`                   // Thread identifier
	ContactName       string    `json:"contactName"`                 // Display name
	ContactNumber     string    `json:"contactNumber"`               // Contact phone number
	LastMessage       string    `json:"lastMessage"`                 // Body of the last message
	Timestamp         time.Time `json:"timestamp"`                   // Timestamp of the last message
	UnreadCount       int       `json:"unreadCount"`                 // Unread inbound messages
	Messages          []Message `json:"messages"`                    // Chronological, append-only
	RoutingNumber     string    `json:"routingNumber,omitempty"`     // Business number texting the contact
	CallToTextContext string    `json:"callToTextContext,omitempty"` // Why the call moved to text
}

// Clone returns a deep copy of the thread
func (t *Thread) Clone() *Thread {
	if t == nil {
		return nil
	}
	cp := *t
	if t.Messages != nil {
		cp.Messages = append([]Message(nil), t.Messages...)
	}
	return &cp
}

// LastMessageEntry returns the final message, if any
func (t *Thread) LastMessageEntry() (Message, bool) {
	if len(t.Messages) == 0 {
		return Message{}, false
	}
	return t.Messages[len(t.Messages)-1], true
}

// Consistent reports whether the denormalized LastMessage and Timestamp
// match the final message
func (t *Thread) Consistent() bool {
	last, ok := t.LastMessageEntry()
	if !ok {
		return t.LastMessage == "" && t.Timestamp.IsZero()
	}
	return t.LastMessage == last.Body && t.Timestamp.Equal(last.Timestamp)
}

// syncDerived recomputes LastMessage and Timestamp from Messages
func (t *Thread) syncDerived() {
	last, ok := t.LastMessageEntry()
	if !ok {
		t.LastMessage = ""
		t.Timestamp = time.Time{}
		return
	}
	t.LastMessage = last.Body
	t.Timestamp = last.Timestamp
}

// SmartReply is a canned response offered for one-tap sending
type SmartReply struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
