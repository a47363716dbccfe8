// ABOUTME: Contact profile data model
// ABOUTME: Contacts are derived from SMS threads plus stored annotations

package contact

import (
	"regexp"
	"strings"

	"github.com/nainya/commsdesk/pkg/sms"
)

// DefaultTags are shown for contacts without stored tags
var DefaultTags = []string{"Prospect", "Follow-up"}

// Contact is the profile header shown above a contact's timeline
type Contact struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Number     string            `json:"number"`
	Email      string            `json:"email"`
	Tags       []string          `json:"tags"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

var whitespace = regexp.MustCompile(`\s`)

// EmailFor derives the placeholder address for a contact name
func EmailFor(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(name), ".") + "@example.com"
}

// FromThread builds a contact from its SMS thread
func FromThread(t *sms.Thread) *Contact {
	return &Contact{
		ID:     t.ContactID,
		Name:   t.ContactName,
		Number: t.ContactNumber,
		Email:  EmailFor(t.ContactName),
		Tags:   append([]string(nil), DefaultTags...),
	}
}
