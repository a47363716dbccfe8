// ABOUTME: Contact timeline data model
// ABOUTME: Interaction is a tagged union of a call or an SMS message

package timeline

import (
	"time"

	"github.com/nainya/commsdesk/pkg/calllog"
	"github.com/nainya/commsdesk/pkg/sms"
)

// Kind tags an interaction
type Kind string

const (
	KindAll     Kind = ""
	KindCall    Kind = "call"
	KindMessage Kind = "message"
)

// ParseKind maps "call"/"calls"/"message"/"messages" to a Kind; anything
// else means all interactions
func ParseKind(s string) Kind {
	switch s {
	case "call", "calls":
		return KindCall
	case "message", "messages":
		return KindMessage
	default:
		return KindAll
	}
}

// Interaction is one entry of a contact's merged history.
// Exactly one of Call and Message is set, matching Kind.
type Interaction struct {
	Kind      Kind                `json:"type"`
	Timestamp time.Time           `json:"timestamp"`
	Call      *calllog.CallRecord `json:"call,omitempty"`
	Message   *sms.Message        `json:"message,omitempty"`
}

// Label is the heading shown for the entry. Calls placed by the contact
// are inbound; everything else is outbound.
func (i Interaction) Label(contactNumber string) string {
	switch i.Kind {
	case KindCall:
		if i.Call != nil && i.Call.CallerNumber == contactNumber {
			return "Inbound Call"
		}
		return "Outbound Call"
	case KindMessage:
		if i.Message != nil && i.Message.Direction == sms.Inbound {
			return "Received Message"
		}
		return "Sent Message"
	default:
		return ""
	}
}

// Counts reports how many entries of each kind a timeline holds
type Counts struct {
	All      int `json:"all"`
	Calls    int `json:"calls"`
	Messages int `json:"messages"`
}
