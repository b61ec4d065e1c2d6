// Package proto describes the internal gophchat.session.v1.SessionService.
// Requests and responses are protobuf well-known types, so the service is
// declared directly as a grpc.ServiceDesc instead of generated from a
// .proto file.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const SessionServiceName = "gophchat.session.v1.SessionService"

const (
	SessionService_Authenticate_FullMethodName  = "/" + SessionServiceName + "/Authenticate"
	SessionService_SweepExpired_FullMethodName  = "/" + SessionServiceName + "/SweepExpired"
	SessionService_RevokeSession_FullMethodName = "/" + SessionServiceName + "/RevokeSession"
)

// Fields of the Authenticate response struct.
const (
	FieldUserID    = "user_id"
	FieldSessionID = "session_id"
	FieldExpiresAt = "expires_at"
)

// SessionServiceClient is the client API for SessionService.
type SessionServiceClient interface {
	// Authenticate resolves an opaque session token to its principal.
	Authenticate(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	// SweepExpired deletes sessions that expired before the given instant.
	SweepExpired(ctx context.Context, in *timestamppb.Timestamp, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	// RevokeSession deletes a session by id.
	RevokeSession(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type sessionServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSessionServiceClient(cc grpc.ClientConnInterface) SessionServiceClient {
	return &sessionServiceClient{cc}
}

func (c *sessionServiceClient) Authenticate(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SessionService_Authenticate_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sessionServiceClient) SweepExpired(ctx context.Context, in *timestamppb.Timestamp, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, SessionService_SweepExpired_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sessionServiceClient) RevokeSession(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, SessionService_RevokeSession_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// SessionServiceServer is the server API for SessionService.
type SessionServiceServer interface {
	Authenticate(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	SweepExpired(context.Context, *timestamppb.Timestamp) (*wrapperspb.BoolValue, error)
	RevokeSession(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
}

// UnimplementedSessionServiceServer can be embedded for forward compatibility.
type UnimplementedSessionServiceServer struct{}

func (UnimplementedSessionServiceServer) Authenticate(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Authenticate not implemented")
}

func (UnimplementedSessionServiceServer) SweepExpired(context.Context, *timestamppb.Timestamp) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method SweepExpired not implemented")
}

func (UnimplementedSessionServiceServer) RevokeSession(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method RevokeSession not implemented")
}

func RegisterSessionServiceServer(s grpc.ServiceRegistrar, srv SessionServiceServer) {
	s.RegisterService(&SessionService_ServiceDesc, srv)
}

func _SessionService_Authenticate_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServiceServer).Authenticate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SessionService_Authenticate_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SessionServiceServer).Authenticate(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _SessionService_SweepExpired_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(timestamppb.Timestamp)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServiceServer).SweepExpired(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SessionService_SweepExpired_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SessionServiceServer).SweepExpired(ctx, req.(*timestamppb.Timestamp))
	}
	return interceptor(ctx, in, info, handler)
}

func _SessionService_RevokeSession_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServiceServer).RevokeSession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SessionService_RevokeSession_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SessionServiceServer).RevokeSession(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// SessionService_ServiceDesc is the grpc.ServiceDesc for SessionService.
var SessionService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: SessionServiceName,
	HandlerType: (*SessionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Authenticate", Handler: _SessionService_Authenticate_Handler},
		{MethodName: "SweepExpired", Handler: _SessionService_SweepExpired_Handler},
		{MethodName: "RevokeSession", Handler: _SessionService_RevokeSession_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophchat/session/v1/session.proto",
}
