// Package client is the chatctl side of the internal session service.
//
// GRPCClient manages the connection, attaches the admin key to every call
// through a unary interceptor, checks server health and maps gRPC status
// codes onto the sentinel errors ErrUnavailable, ErrUnauthorized and
// ErrNotFound.
package client
