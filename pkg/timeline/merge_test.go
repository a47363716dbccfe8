package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nainya/commsdesk/pkg/calllog"
	"github.com/nainya/commsdesk/pkg/sms"
)

var t0 = time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return t0.Add(time.Duration(minutes) * time.Minute)
}

func TestMergeOrdersNewestFirst(t *testing.T) {
	calls := []*calllog.CallRecord{
		{ID: "c1", Timestamp: at(1)},
		{ID: "c3", Timestamp: at(3)},
	}
	messages := []sms.Message{
		{ID: "m2", Timestamp: at(2), Direction: sms.Inbound},
	}

	items := Merge(calls, messages)

	require.Len(t, items, 3)
	assert.Equal(t, at(3), items[0].Timestamp)
	assert.Equal(t, at(2), items[1].Timestamp)
	assert.Equal(t, at(1), items[2].Timestamp)

	assert.Equal(t, KindCall, items[0].Kind)
	assert.Equal(t, "c3", items[0].Call.ID)
	assert.Equal(t, KindMessage, items[1].Kind)
	assert.Equal(t, "m2", items[1].Message.ID)
	assert.Nil(t, items[1].Call)
}

func TestMergeEmpty(t *testing.T) {
	items := Merge(nil, nil)

	require.NotNil(t, items)
	assert.Empty(t, items)
	assert.Empty(t, Merge(nil, nil))
}

func TestMergeTiesPutCallsFirst(t *testing.T) {
	calls := []*calllog.CallRecord{
		{ID: "c1", Timestamp: at(5)},
		{ID: "c2", Timestamp: at(5)},
	}
	messages := []sms.Message{
		{ID: "m1", Timestamp: at(5)},
		{ID: "m2", Timestamp: at(5)},
	}

	for range 5 {
		items := Merge(calls, messages)
		require.Len(t, items, 4)
		assert.Equal(t, "c1", items[0].Call.ID)
		assert.Equal(t, "c2", items[1].Call.ID)
		assert.Equal(t, "m1", items[2].Message.ID)
		assert.Equal(t, "m2", items[3].Message.ID)
	}
}

func TestMergeMessagePointersAreDistinct(t *testing.T) {
	messages := []sms.Message{
		{ID: "m1", Timestamp: at(1)},
		{ID: "m2", Timestamp: at(2)},
	}

	items := Merge(nil, messages)

	require.Len(t, items, 2)
	assert.Equal(t, "m2", items[0].Message.ID)
	assert.Equal(t, "m1", items[1].Message.ID)

	// The merged view must not alias the caller's slice
	items[0].Message.Body = "changed"
	assert.Empty(t, messages[1].Body)
}

func TestFilterKeepsOrder(t *testing.T) {
	calls := []*calllog.CallRecord{
		{ID: "c1", Timestamp: at(1)},
		{ID: "c4", Timestamp: at(4)},
	}
	messages := []sms.Message{
		{ID: "m2", Timestamp: at(2)},
		{ID: "m3", Timestamp: at(3)},
	}
	items := Merge(calls, messages)

	onlyCalls := Filter(items, KindCall)
	require.Len(t, onlyCalls, 2)
	assert.Equal(t, "c4", onlyCalls[0].Call.ID)
	assert.Equal(t, "c1", onlyCalls[1].Call.ID)

	onlyMessages := Filter(items, KindMessage)
	require.Len(t, onlyMessages, 2)
	assert.Equal(t, "m3", onlyMessages[0].Message.ID)
	assert.Equal(t, "m2", onlyMessages[1].Message.ID)

	assert.Len(t, Filter(items, KindAll), 4)
	assert.Equal(t, Counts{All: 4, Calls: 2, Messages: 2}, Count(items))
}

func TestLabel(t *testing.T) {
	const number = "(555) 300-0000"

	tests := []struct {
		name string
		item Interaction
		want string
	}{
		{"inbound call", Interaction{Kind: KindCall, Call: &calllog.CallRecord{CallerNumber: number}}, "Inbound Call"},
		{"outbound call", Interaction{Kind: KindCall, Call: &calllog.CallRecord{DialedNumber: number}}, "Outbound Call"},
		{"received", Interaction{Kind: KindMessage, Message: &sms.Message{Direction: sms.Inbound}}, "Received Message"},
		{"sent", Interaction{Kind: KindMessage, Message: &sms.Message{Direction: sms.Outbound}}, "Sent Message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.Label(number))
		})
	}
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, KindCall, ParseKind("calls"))
	assert.Equal(t, KindMessage, ParseKind("message"))
	assert.Equal(t, KindAll, ParseKind("all"))
	assert.Equal(t, KindAll, ParseKind(""))
}
