// ABOUTME: Request and response payloads of the CommsDesk gRPC service
// ABOUTME: Payloads travel as google.protobuf.Struct using their JSON shape

package server

import (
	"fmt"

	"github.com/bytedance/sonic"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nainya/commsdesk/pkg/calllog"
	"github.com/nainya/commsdesk/pkg/query"
	"github.com/nainya/commsdesk/pkg/sms"
)

type ListCallsRequest struct {
	Query   string `json:"q,omitempty"`
	OrderBy string `json:"orderBy,omitempty"`
	Order   string `json:"order,omitempty"`
}

type ListCallsResponse struct {
	Calls []*calllog.CallRecord `json:"calls"`
}

type SetQualificationRequest struct {
	CallID      string `json:"callId"`
	IsQualified bool   `json:"isQualified"`
}

type SetQualificationResponse struct {
	Call *calllog.CallRecord `json:"call"`
}

// ListThreadsRequest filters by contact name or number. Results are
// sorted most recent first.
type ListThreadsRequest struct {
	Query string `json:"q,omitempty"`
}

type ListThreadsResponse struct {
	Threads []*sms.Thread `json:"threads"`
}

type GetThreadRequest struct {
	ContactID string `json:"contactId"`
}

type GetThreadResponse struct {
	Thread *sms.Thread `json:"thread"`
}

type ListSmartRepliesRequest struct{}

type ListSmartRepliesResponse struct {
	Replies []sms.SmartReply `json:"replies"`
}

type AppendMessageRequest struct {
	ContactID string `json:"contactId"`
	Body      string `json:"body"`
}

type AppendMessageResponse struct {
	Thread *sms.Thread `json:"thread"`
}

// GetContactTimelineRequest selects a contact and, optionally, one kind
// of interaction ("call" or "message")
type GetContactTimelineRequest struct {
	ContactID string `json:"contactId"`
	Kind      string `json:"kind,omitempty"`
}

type GetContactTimelineResponse struct {
	Profile *query.Profile `json:"profile"`
}

type SetContactTagsRequest struct {
	ContactID string   `json:"contactId"`
	Tags      []string `json:"tags"`
}

type SetContactTagsResponse struct {
	Tags []string `json:"tags"`
}

// SetContactAttributesRequest merges attributes; an empty value removes
// the key
type SetContactAttributesRequest struct {
	ContactID  string            `json:"contactId"`
	Attributes map[string]string `json:"attributes"`
}

type SetContactAttributesResponse struct {
	Attributes map[string]string `json:"attributes"`
}

type HealthRequest struct{}

type HealthResponse struct {
	Healthy       bool   `json:"healthy"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}

type StatsRequest struct{}

type StatsResponse struct {
	TotalCalls      int              `json:"totalCalls"`
	QualifiedCalls  int              `json:"qualifiedCalls"`
	TotalThreads    int              `json:"totalThreads"`
	TotalMessages   int              `json:"totalMessages"`
	UnreadMessages  int              `json:"unreadMessages"`
	OperationCounts map[string]int64 `json:"operationCounts"`
}

// toStruct converts a payload to a Struct through its JSON form
func toStruct(v any) (*structpb.Struct, error) {
	data, err := sonic.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	s := &structpb.Struct{}
	if string(data) == "null" {
		return s, nil
	}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("converting payload: %w", err)
	}
	return s, nil
}

// fromStruct fills v from a Struct. A nil Struct leaves v untouched.
func fromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		return nil
	}

	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("converting payload: %w", err)
	}

	if err := sonic.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}
	return nil
}
