package grpc

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	pb "github.com/dmitrijs2005/gophchat/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// adminMethods require the admin key in the x-admin-key metadata.
var adminMethods = map[string]bool{
	pb.SessionService_SweepExpired_FullMethodName:  true,
	pb.SessionService_RevokeSession_FullMethodName: true,
}

func (s *GRPCServer) adminKeyInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if adminMethods[info.FullMethod] {

		if s.adminKey == "" {
			return nil, status.Error(codes.PermissionDenied, "admin api is disabled")
		}

		var key string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get(common.AdminKeyHeaderName); len(values) > 0 {
				key = values[0]
			}
		}
		if key == "" {
			return nil, status.Error(codes.Unauthenticated, "missing admin key")
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.adminKey)) != 1 {
			return nil, status.Error(codes.Unauthenticated, "invalid admin key")
		}
	}

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Info(ctx, "rpc",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}
