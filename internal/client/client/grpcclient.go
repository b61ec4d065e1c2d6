package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	pb "github.com/dmitrijs2005/gophchat/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Principal is what the server resolved a session token to.
type Principal struct {
	UserID    string
	SessionID string
	ExpiresAt time.Time
}

// healthChecker is the part of healthpb.HealthClient used here.
type healthChecker interface {
	Check(ctx context.Context, in *healthpb.HealthCheckRequest, opts ...grpc.CallOption) (*healthpb.HealthCheckResponse, error)
}

type GRPCClient struct {
	endpointURL string
	adminKey    string
	conn        *grpc.ClientConn
	client      pb.SessionServiceClient
	health      healthChecker
}

func withAdminKey(ctx context.Context, key string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AdminKeyHeaderName, key)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) adminKeyInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.adminKey != "" {
		ctx = withAdminKey(ctx, s.adminKey)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewSessionClient(endpointURL, adminKey string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, adminKey: adminKey}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.adminKeyInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewSessionServiceClient(conn)
	s.health = healthpb.NewHealthClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// Sweep asks the server to delete sessions that expired before now. It
// reports whether anything was removed.
func (s *GRPCClient) Sweep(ctx context.Context, now time.Time) (bool, error) {
	resp, err := s.client.SweepExpired(ctx, timestamppb.New(now))
	if err != nil {
		return false, s.mapError(err)
	}
	return resp.GetValue(), nil
}

// WhoAmI resolves a session token.
func (s *GRPCClient) WhoAmI(ctx context.Context, token string) (*Principal, error) {
	resp, err := s.client.Authenticate(ctx, wrapperspb.String(token))
	if err != nil {
		return nil, s.mapError(err)
	}

	fields := resp.GetFields()
	p := &Principal{
		UserID:    fields[pb.FieldUserID].GetStringValue(),
		SessionID: fields[pb.FieldSessionID].GetStringValue(),
	}
	if v := fields[pb.FieldExpiresAt].GetStringValue(); v != "" {
		if p.ExpiresAt, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return nil, fmt.Errorf("bad expires_at %q: %w", v, err)
		}
	}
	return p, nil
}

func (s *GRPCClient) Revoke(ctx context.Context, sessionID string) error {
	if _, err := s.client.RevokeSession(ctx, wrapperspb.String(sessionID)); err != nil {
		return s.mapError(err)
	}
	return nil
}

// Ping checks the standard health service for the session service.
func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: pb.SessionServiceName})
	if err != nil {
		return s.mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return ErrUnavailable
	case codes.NotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
