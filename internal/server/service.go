// ABOUTME: Service descriptor and client for commsdesk.v1.CommsDesk
// ABOUTME: Typed handlers are adapted to Struct payloads on the wire

package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "commsdesk.v1.CommsDesk"

// CommsDeskServer is the server API for the CommsDesk service
type CommsDeskServer interface {
	ListCalls(context.Context, *ListCallsRequest) (*ListCallsResponse, error)
	SetQualification(context.Context, *SetQualificationRequest) (*SetQualificationResponse, error)
	ListThreads(context.Context, *ListThreadsRequest) (*ListThreadsResponse, error)
	GetThread(context.Context, *GetThreadRequest) (*GetThreadResponse, error)
	ListSmartReplies(context.Context, *ListSmartRepliesRequest) (*ListSmartRepliesResponse, error)
	AppendMessage(context.Context, *AppendMessageRequest) (*AppendMessageResponse, error)
	GetContactTimeline(context.Context, *GetContactTimelineRequest) (*GetContactTimelineResponse, error)
	SetContactTags(context.Context, *SetContactTagsRequest) (*SetContactTagsResponse, error)
	SetContactAttributes(context.Context, *SetContactAttributesRequest) (*SetContactAttributesResponse, error)
	Health(context.Context, *HealthRequest) (*HealthResponse, error)
	Stats(context.Context, *StatsRequest) (*StatsResponse, error)
}

// unary adapts a typed method to a gRPC method handler. The interceptor
// sees the decoded request.
func unary[Req, Resp any](method string, call func(CommsDeskServer, context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + ServiceName + "/" + method

	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		req := new(Req)
		if err := fromStruct(in, req); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
		}

		handler := func(ctx context.Context, r any) (any, error) {
			resp, err := call(srv.(CommsDeskServer), ctx, r.(*Req))
			if err != nil {
				return nil, err
			}
			out, err := toStruct(resp)
			if err != nil {
				return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
			}
			return out, nil
		}

		if interceptor == nil {
			return handler(ctx, req)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, req, info, handler)
	}
}

// ServiceDesc describes the CommsDesk service for grpc.Server
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CommsDeskServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListCalls", Handler: unary("ListCalls", CommsDeskServer.ListCalls)},
		{MethodName: "SetQualification", Handler: unary("SetQualification", CommsDeskServer.SetQualification)},
		{MethodName: "ListThreads", Handler: unary("ListThreads", CommsDeskServer.ListThreads)},
		{MethodName: "GetThread", Handler: unary("GetThread", CommsDeskServer.GetThread)},
		{MethodName: "ListSmartReplies", Handler: unary("ListSmartReplies", CommsDeskServer.ListSmartReplies)},
		{MethodName: "AppendMessage", Handler: unary("AppendMessage", CommsDeskServer.AppendMessage)},
		{MethodName: "GetContactTimeline", Handler: unary("GetContactTimeline", CommsDeskServer.GetContactTimeline)},
		{MethodName: "SetContactTags", Handler: unary("SetContactTags", CommsDeskServer.SetContactTags)},
		{MethodName: "SetContactAttributes", Handler: unary("SetContactAttributes", CommsDeskServer.SetContactAttributes)},
		{MethodName: "Health", Handler: unary("Health", CommsDeskServer.Health)},
		{MethodName: "Stats", Handler: unary("Stats", CommsDeskServer.Stats)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "commsdesk/v1/commsdesk.proto",
}

// RegisterCommsDeskServer registers srv with a gRPC server
func RegisterCommsDeskServer(s grpc.ServiceRegistrar, srv CommsDeskServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client is a typed client for the CommsDesk service
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// invoke sends req and decodes the reply into resp
func invoke[Resp any](ctx context.Context, c *Client, method string, req any, opts ...grpc.CallOption) (*Resp, error) {
	in, err := toStruct(req)
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}

	resp := new(Resp)
	if err := fromStruct(out, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) ListCalls(ctx context.Context, req *ListCallsRequest, opts ...grpc.CallOption) (*ListCallsResponse, error) {
	return invoke[ListCallsResponse](ctx, c, "ListCalls", req, opts...)
}

func (c *Client) SetQualification(ctx context.Context, req *SetQualificationRequest, opts ...grpc.CallOption) (*SetQualificationResponse, error) {
	return invoke[SetQualificationResponse](ctx, c, "SetQualification", req, opts...)
}

func (c *Client) ListThreads(ctx context.Context, req *ListThreadsRequest, opts ...grpc.CallOption) (*ListThreadsResponse, error) {
	return invoke[ListThreadsResponse](ctx, c, "ListThreads", req, opts...)
}

func (c *Client) GetThread(ctx context.Context, req *GetThreadRequest, opts ...grpc.CallOption) (*GetThreadResponse, error) {
	return invoke[GetThreadResponse](ctx, c, "GetThread", req, opts...)
}

func (c *Client) ListSmartReplies(ctx context.Context, req *ListSmartRepliesRequest, opts ...grpc.CallOption) (*ListSmartRepliesResponse, error) {
	return invoke[ListSmartRepliesResponse](ctx, c, "ListSmartReplies", req, opts...)
}

func (c *Client) AppendMessage(ctx context.Context, req *AppendMessageRequest, opts ...grpc.CallOption) (*AppendMessageResponse, error) {
	return invoke[AppendMessageResponse](ctx, c, "AppendMessage", req, opts...)
}

func (c *Client) GetContactTimeline(ctx context.Context, req *GetContactTimelineRequest, opts ...grpc.CallOption) (*GetContactTimelineResponse, error) {
	return invoke[GetContactTimelineResponse](ctx, c, "GetContactTimeline", req, opts...)
}

func (c *Client) SetContactTags(ctx context.Context, req *SetContactTagsRequest, opts ...grpc.CallOption) (*SetContactTagsResponse, error) {
	return invoke[SetContactTagsResponse](ctx, c, "SetContactTags", req, opts...)
}

func (c *Client) SetContactAttributes(ctx context.Context, req *SetContactAttributesRequest, opts ...grpc.CallOption) (*SetContactAttributesResponse, error) {
	return invoke[SetContactAttributesResponse](ctx, c, "SetContactAttributes", req, opts...)
}

func (c *Client) Health(ctx context.Context, req *HealthRequest, opts ...grpc.CallOption) (*HealthResponse, error) {
	return invoke[HealthResponse](ctx, c, "Health", req, opts...)
}

func (c *Client) Stats(ctx context.Context, req *StatsRequest, opts ...grpc.CallOption) (*StatsResponse, error) {
	return invoke[StatsResponse](ctx, c, "Stats", req, opts...)
}
