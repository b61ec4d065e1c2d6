// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophchat/internal/dbx"
	"github.com/dmitrijs2005/gophchat/internal/server/migrations"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/friendships"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/groups"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/members"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/messages"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/reactions"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Sessions returns a sessions.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Groups(db dbx.DBTX) groups.Repository {
	return groups.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Members(db dbx.DBTX) members.Repository {
	return members.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Messages(db dbx.DBTX) messages.Repository {
	return messages.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Friendships(db dbx.DBTX) friendships.Repository {
	return friendships.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Reactions(db dbx.DBTX) reactions.Repository {
	return reactions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Notifications(db dbx.DBTX) notifications.Repository {
	return notifications.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
