package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	pb "github.com/dmitrijs2005/gophchat/internal/proto"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Authenticate resolves an opaque session token. expires_at is RFC 3339.
func (s *GRPCServer) Authenticate(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	p, err := s.sessions.Authenticate(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out, err := structpb.NewStruct(map[string]any{
		pb.FieldUserID:    p.UserID,
		pb.FieldSessionID: p.SessionID,
		pb.FieldExpiresAt: p.ExpiresAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return out, nil
}

func (s *GRPCServer) SweepExpired(ctx context.Context, req *timestamppb.Timestamp) (*wrapperspb.BoolValue, error) {
	if err := req.CheckValid(); err != nil {
		return nil, status.Error(codes.InvalidArgument, "now must be a valid timestamp")
	}

	removed, err := s.sessions.SweepExpired(ctx, req.AsTime())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "session sweep", "removed", removed)
	return wrapperspb.Bool(removed), nil
}

func (s *GRPCServer) RevokeSession(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "session id is required")
	}
	if err := s.sessions.DeleteSession(ctx, req.GetValue()); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

// toStatus maps service errors onto gRPC codes. Internal failures are
// logged and hidden from the caller.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorInvalidArgument):
		return status.Error(codes.InvalidArgument, common.Reason(err))
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, common.Reason(err))
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, common.Reason(err))
	case errors.Is(err, common.ErrorConflict):
		return status.Error(codes.AlreadyExists, common.Reason(err))
	case errors.Is(err, common.ErrorResourceExhausted):
		return status.Error(codes.ResourceExhausted, "service temporarily unavailable")
	}
	s.logger.Error(ctx, "rpc failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}
