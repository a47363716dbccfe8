package timeline

import (
	"sort"

	"github.com/nainya/commsdesk/pkg/calllog"
	"github.com/nainya/commsdesk/pkg/sms"
)

// Merge combines a contact's calls and messages into one history, newest
// first. Calls are placed before messages ahead of a stable sort, so equal
// timestamps always list calls first, each in input order.
func Merge(calls []*calllog.CallRecord, messages []sms.Message) []Interaction {
	items := make([]Interaction, 0, len(calls)+len(messages))

	for _, c := range calls {
		if c == nil {
			continue
		}
		items = append(items, Interaction{
			Kind:      KindCall,
			Timestamp: c.Timestamp,
			Call:      c,
		})
	}

	for i := range messages {
		msg := messages[i]
		items = append(items, Interaction{
			Kind:      KindMessage,
			Timestamp: msg.Timestamp,
			Message:   &msg,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})

	return items
}

// Filter keeps entries of one kind without re-sorting. KindAll keeps all.
func Filter(items []Interaction, kind Kind) []Interaction {
	if kind == KindAll {
		return items
	}

	out := make([]Interaction, 0, len(items))
	for _, it := range items {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}

// Count tallies a merged timeline per kind
func Count(items []Interaction) Counts {
	c := Counts{All: len(items)}
	for _, it := range items {
		switch it.Kind {
		case KindCall:
			c.Calls++
		case KindMessage:
			c.Messages++
		}
	}
	return c
}
