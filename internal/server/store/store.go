// Package store defines the transactional boundary the services call
// through. A Store hands out Repositories bound either to a single pooled
// connection (Read) or to a transaction (WithTx).
package store

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/server/repositories/friendships"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/groups"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/members"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/messages"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/reactions"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/users"
)

// Repositories is the set of typed repositories visible inside one unit of
// work. Values must not be retained after the callback returns.
type Repositories interface {
	Users() users.Repository
	Sessions() sessions.Repository
	Groups() groups.Repository
	Members() members.Repository
	Messages() messages.Repository
	Friendships() friendships.Repository
	Reactions() reactions.Repository
	Notifications() notifications.Repository
}

type Store interface {
	// Read runs fn against a pooled connection without an explicit
	// transaction. Each statement is atomic on its own.
	Read(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error

	// WithTx runs fn inside a read-committed transaction that is read-only
	// unless write is set. It commits when fn returns nil and rolls back on
	// error or panic. The connection is always released.
	WithTx(ctx context.Context, write bool, fn func(ctx context.Context, r Repositories) error) error

	Ping(ctx context.Context) error
	Close() error
}
