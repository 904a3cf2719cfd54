package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "brightnesstracker.v1.TrackerService"

// TrackerServer is the server API for the tracker service.
// Messages are protobuf well-known types, so no generated code is needed.
type TrackerServer interface {
	StartSession(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	StopSession(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	ReportBrightness(context.Context, *wrapperspb.DoubleValue) (*emptypb.Empty, error)
	SetThreshold(context.Context, *wrapperspb.StringValue) (*wrapperspb.Int64Value, error)
	GetLog(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	ClearLog(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

// ServiceDesc describes the tracker service for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TrackerServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("StartSession", TrackerServer.StartSession),
		unary("StopSession", TrackerServer.StopSession),
		unary("ReportBrightness", TrackerServer.ReportBrightness),
		unary("SetThreshold", TrackerServer.SetThreshold),
		unary("GetLog", TrackerServer.GetLog),
		unary("ClearLog", TrackerServer.ClearLog),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "brightnesstracker/v1/tracker.proto",
}

// RegisterTrackerServer registers srv on s
func RegisterTrackerServer(s grpc.ServiceRegistrar, srv TrackerServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary builds the method descriptor that decodes Req, runs interceptors
// and dispatches to call
func unary[Req, Resp any](name string, call func(TrackerServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	method := fullMethod(name)
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TrackerServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(TrackerServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Client is a typed client for the tracker service
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// StartSession starts (or restarts) tracking
func (c *Client) StartSession(ctx context.Context) error {
	return c.cc.Invoke(ctx, fullMethod("StartSession"), &emptypb.Empty{}, &emptypb.Empty{})
}

// StopSession stops tracking
func (c *Client) StopSession(ctx context.Context) error {
	return c.cc.Invoke(ctx, fullMethod("StopSession"), &emptypb.Empty{}, &emptypb.Empty{})
}

// ReportBrightness pushes one raw sample; domain.InvalidBrightness marks a missing reading
func (c *Client) ReportBrightness(ctx context.Context, lux float64) error {
	return c.cc.Invoke(ctx, fullMethod("ReportBrightness"), wrapperspb.Double(lux), &emptypb.Empty{})
}

// SetThreshold sends threshold input as a human would type it; blank unsets.
// It returns the threshold in effect afterwards.
func (c *Client) SetThreshold(ctx context.Context, input string) (int, error) {
	out := &wrapperspb.Int64Value{}
	if err := c.cc.Invoke(ctx, fullMethod("SetThreshold"), wrapperspb.String(input), out); err != nil {
		return 0, err
	}
	return int(out.GetValue()), nil
}

// Log returns the durable event log text
func (c *Client) Log(ctx context.Context) (string, error) {
	out := &wrapperspb.StringValue{}
	if err := c.cc.Invoke(ctx, fullMethod("GetLog"), &emptypb.Empty{}, out); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

// ClearLog truncates the durable event log
func (c *Client) ClearLog(ctx context.Context) error {
	return c.cc.Invoke(ctx, fullMethod("ClearLog"), &emptypb.Empty{}, &emptypb.Empty{})
}
