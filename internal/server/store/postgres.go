package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/dbx"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/friendships"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/groups"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/members"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/messages"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/reactions"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/users"
)

// PostgresStore implements Store over a database/sql pool opened with the
// pgx driver.
type PostgresStore struct {
	db             *sql.DB
	rm             repomanager.RepositoryManager
	acquireTimeout time.Duration
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// OpenPostgres opens the pool, verifies connectivity and applies migrations.
func OpenPostgres(ctx context.Context, dsn string, maxOpenConns int, acquireTimeout time.Duration) (*PostgresStore, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns)
	}

	s := NewPostgresStore(db, repomanager.NewPostgresRepositoryManager(), acquireTimeout)
	if err := s.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func NewPostgresStore(db *sql.DB, rm repomanager.RepositoryManager, acquireTimeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, rm: rm, acquireTimeout: acquireTimeout}
}

func (s *PostgresStore) Read(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	err := dbx.WithConn(ctx, s.db, s.acquireTimeout, func(ctx context.Context, conn *sql.Conn) error {
		return fn(ctx, &boundRepositories{rm: s.rm, db: conn})
	})
	return dbx.Classify(err)
}

func (s *PostgresStore) WithTx(ctx context.Context, write bool, fn func(ctx context.Context, r Repositories) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelReadCommitted, ReadOnly: !write}

	err := dbx.WithConn(ctx, s.db, s.acquireTimeout, func(ctx context.Context, conn *sql.Conn) error {
		return dbx.WithTx(ctx, conn, opts, func(ctx context.Context, tx dbx.DBTX) error {
			return fn(ctx, &boundRepositories{rm: s.rm, db: tx})
		})
	})
	return dbx.Classify(err)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return dbx.Classify(dbx.WithConn(ctx, s.db, s.acquireTimeout, func(ctx context.Context, conn *sql.Conn) error {
		return conn.PingContext(ctx)
	}))
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// boundRepositories vends repositories bound to one connection or transaction.
type boundRepositories struct {
	rm repomanager.RepositoryManager
	db dbx.DBTX
}

func (b *boundRepositories) Users() users.Repository             { return b.rm.Users(b.db) }
func (b *boundRepositories) Sessions() sessions.Repository       { return b.rm.Sessions(b.db) }
func (b *boundRepositories) Groups() groups.Repository           { return b.rm.Groups(b.db) }
func (b *boundRepositories) Members() members.Repository         { return b.rm.Members(b.db) }
func (b *boundRepositories) Messages() messages.Repository       { return b.rm.Messages(b.db) }
func (b *boundRepositories) Friendships() friendships.Repository { return b.rm.Friendships(b.db) }
func (b *boundRepositories) Reactions() reactions.Repository     { return b.rm.Reactions(b.db) }
func (b *boundRepositories) Notifications() notifications.Repository {
	return b.rm.Notifications(b.db)
}
