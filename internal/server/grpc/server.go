// Package grpc serves the internal session RPCs used by sibling services
// and the chatctl maintenance tool.
package grpc

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/logging"
	pb "github.com/dmitrijs2005/gophchat/internal/proto"
	"github.com/dmitrijs2005/gophchat/internal/server/services"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// SessionManager is the part of the session service exposed over gRPC.
type SessionManager interface {
	Authenticate(ctx context.Context, token string) (*services.Principal, error)
	SweepExpired(ctx context.Context, now time.Time) (bool, error)
	DeleteSession(ctx context.Context, id string) error
}

type GRPCServer struct {
	pb.UnimplementedSessionServiceServer
	address  string
	sessions SessionManager
	logger   logging.Logger
	adminKey string
}

func NewGRPCServer(a string, l logging.Logger, sessions SessionManager, adminKey string) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		sessions: sessions,
		adminKey: adminKey,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.adminKeyInterceptor),
	)

	pb.RegisterSessionServiceServer(srv, s)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(pb.SessionServiceName, healthpb.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}

	return nil
}
