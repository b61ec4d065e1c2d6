// Package common defines shared constants, sentinel errors and small helpers
// used across gophchat components. Callers should use errors.Is to match
// the sentinel values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")

	// Service-level errors.
	ErrorInvalidArgument   = errors.New("invalid argument")
	ErrorInternal          = errors.New("internal error")
	ErrorResourceExhausted = errors.New("resource exhausted")
	ErrorUnauthorized      = errors.New("unauthorized")
	ErrorForbidden         = errors.New("forbidden")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)

// InvalidArgument returns an error matching ErrorInvalidArgument that carries
// a human-readable reason.
func InvalidArgument(reason string) error {
	return fmt.Errorf("%w: %s", ErrorInvalidArgument, reason)
}

// Reason strips the sentinel prefix from err and returns what is left, so
// that transports can show "username is required" instead of
// "invalid argument: username is required".
func Reason(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, s := range []error{ErrorInvalidArgument, ErrorConflict, ErrorNotFound, ErrorForbidden} {
		prefix := s.Error() + ": "
		if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return msg
}
