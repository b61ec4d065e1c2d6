package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophchat/internal/dbx"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/friendships"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/groups"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/members"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/messages"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/reactions"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Groups(db dbx.DBTX) groups.Repository
	Members(db dbx.DBTX) members.Repository
	Messages(db dbx.DBTX) messages.Repository
	Friendships(db dbx.DBTX) friendships.Repository
	Reactions(db dbx.DBTX) reactions.Repository
	Notifications(db dbx.DBTX) notifications.Repository
}
