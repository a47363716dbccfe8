// Package server implements the CommsDesk gRPC service and HTTP API
package server

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nainya/commsdesk/pkg/calllog"
	"github.com/nainya/commsdesk/pkg/query"
	"github.com/nainya/commsdesk/pkg/sms"
	"github.com/nainya/commsdesk/pkg/timeline"
)

// Version is reported by the Health method
const Version = "1.0.0"

// Server implements CommsDeskServer over a query engine
type Server struct {
	engine *query.Engine

	startTime time.Time
	mu        sync.Mutex
	opCounts  map[string]int64
}

// NewServer creates a service instance
func NewServer(engine *query.Engine) *Server {
	return &Server{
		engine:    engine,
		startTime: time.Now(),
		opCounts:  make(map[string]int64),
	}
}

// Engine returns the underlying query engine
func (s *Server) Engine() *query.Engine {
	return s.engine
}

func (s *Server) count(op string) {
	s.mu.Lock()
	s.opCounts[op]++
	s.mu.Unlock()
}

// toStatus maps domain and context errors to gRPC status errors
func toStatus(err error) error {
	switch {
	case errors.Is(err, query.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Errorf(codes.Internal, "internal error: %v", err)
	}
}

// ========== Call Log ==========

func (s *Server) ListCalls(ctx context.Context, req *ListCallsRequest) (*ListCallsResponse, error) {
	s.count("ListCalls")

	calls, err := s.engine.ListCalls(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	return &ListCallsResponse{
		Calls: calllog.Apply(calls, calllog.ListOptions{
			Filter:  req.Query,
			OrderBy: calllog.ParseSortField(req.OrderBy),
			Order:   calllog.ParseSortOrder(req.Order),
		}),
	}, nil
}

func (s *Server) SetQualification(ctx context.Context, req *SetQualificationRequest) (*SetQualificationResponse, error) {
	s.count("SetQualification")

	if req.CallID == "" {
		return nil, status.Error(codes.InvalidArgument, "callId is required")
	}

	call, err := s.engine.SetQualification(ctx, req.CallID, req.IsQualified)
	if err != nil {
		return nil, toStatus(err)
	}
	return &SetQualificationResponse{Call: call}, nil
}

// ========== SMS Inbox ==========

func (s *Server) ListThreads(ctx context.Context, req *ListThreadsRequest) (*ListThreadsResponse, error) {
	s.count("ListThreads")

	threads, err := s.engine.ListThreads(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	threads = sms.Search(threads, req.Query)
	sms.SortByRecent(threads)
	return &ListThreadsResponse{Threads: threads}, nil
}

func (s *Server) GetThread(ctx context.Context, req *GetThreadRequest) (*GetThreadResponse, error) {
	s.count("GetThread")

	if req.ContactID == "" {
		return nil, status.Error(codes.InvalidArgument, "contactId is required")
	}

	thread, ok, err := s.engine.GetThread(ctx, req.ContactID)
	if err != nil {
		return nil, toStatus(err)
	}
	if !ok {
		return nil, status.Errorf(codes.NotFound, "thread not found: %s", req.ContactID)
	}
	return &GetThreadResponse{Thread: thread}, nil
}

func (s *Server) ListSmartReplies(ctx context.Context, req *ListSmartRepliesRequest) (*ListSmartRepliesResponse, error) {
	s.count("ListSmartReplies")

	replies, err := s.engine.ListSmartReplies(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListSmartRepliesResponse{Replies: replies}, nil
}

func (s *Server) AppendMessage(ctx context.Context, req *AppendMessageRequest) (*AppendMessageResponse, error) {
	s.count("AppendMessage")

	if req.ContactID == "" {
		return nil, status.Error(codes.InvalidArgument, "contactId is required")
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, status.Error(codes.InvalidArgument, "message body is required")
	}

	thread, err := s.engine.AppendMessage(ctx, req.ContactID, req.Body)
	if err != nil {
		return nil, toStatus(err)
	}
	return &AppendMessageResponse{Thread: thread}, nil
}

// ========== Contact Profile ==========

func (s *Server) GetContactTimeline(ctx context.Context, req *GetContactTimelineRequest) (*GetContactTimelineResponse, error) {
	s.count("GetContactTimeline")

	if req.ContactID == "" {
		return nil, status.Error(codes.InvalidArgument, "contactId is required")
	}

	profile, ok, err := s.engine.ContactProfile(ctx, req.ContactID)
	if err != nil {
		return nil, toStatus(err)
	}
	if !ok {
		return nil, status.Errorf(codes.NotFound, "contact not found: %s", req.ContactID)
	}

	// Counts always describe the full timeline
	profile.Timeline = timeline.Filter(profile.Timeline, timeline.ParseKind(req.Kind))
	return &GetContactTimelineResponse{Profile: profile}, nil
}

func (s *Server) SetContactTags(ctx context.Context, req *SetContactTagsRequest) (*SetContactTagsResponse, error) {
	s.count("SetContactTags")

	if req.ContactID == "" {
		return nil, status.Error(codes.InvalidArgument, "contactId is required")
	}

	if err := s.engine.SetContactTags(ctx, req.ContactID, req.Tags); err != nil {
		return nil, toStatus(err)
	}
	return &SetContactTagsResponse{Tags: s.engine.Contacts().Tags(req.ContactID)}, nil
}

func (s *Server) SetContactAttributes(ctx context.Context, req *SetContactAttributesRequest) (*SetContactAttributesResponse, error) {
	s.count("SetContactAttributes")

	if req.ContactID == "" {
		return nil, status.Error(codes.InvalidArgument, "contactId is required")
	}
	for k := range req.Attributes {
		if strings.TrimSpace(k) == "" {
			return nil, status.Error(codes.InvalidArgument, "attribute names must not be blank")
		}
	}

	attrs, err := s.engine.SetContactAttributes(ctx, req.ContactID, req.Attributes)
	if err != nil {
		return nil, toStatus(err)
	}
	return &SetContactAttributesResponse{Attributes: attrs}, nil
}

// ========== Health & Status ==========

func (s *Server) Health(ctx context.Context, req *HealthRequest) (*HealthResponse, error) {
	return &HealthResponse{
		Healthy:       true,
		Version:       Version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	}, nil
}

func (s *Server) Stats(ctx context.Context, req *StatsRequest) (*StatsResponse, error) {
	calls := s.engine.Calls()
	threads := s.engine.Threads()

	s.mu.Lock()
	counts := make(map[string]int64, len(s.opCounts))
	for op, n := range s.opCounts {
		counts[op] = n
	}
	s.mu.Unlock()

	return &StatsResponse{
		TotalCalls:      calls.Len(),
		QualifiedCalls:  calls.QualifiedCount(),
		TotalThreads:    threads.Len(),
		TotalMessages:   threads.MessageCount(),
		UnreadMessages:  sms.UnreadTotal(threads.List()),
		OperationCounts: counts,
	}, nil
}
