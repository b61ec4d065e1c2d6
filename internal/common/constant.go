package common

// AdminKeyHeaderName is the HTTP header / gRPC metadata key carrying the
// administrative key for maintenance calls such as the session sweep.
const AdminKeyHeaderName = "x-admin-key"

// SaltSize is the number of random bytes in a password salt.
const SaltSize = 32

// SessionTokenSize is the number of random bytes behind an opaque session token.
const SessionTokenSize = 32
