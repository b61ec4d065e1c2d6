// Package dbx provides the small database/sql layer shared by repositories:
// a DBTX interface implemented by *sql.DB, *sql.Conn and *sql.Tx, helpers
// that bound connection acquisition and run functions inside a transaction,
// and Classify, which turns driver failures into domain errors.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
)

// DBTX is the subset of database/sql used by our repos.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Beginner starts transactions. *sql.DB and *sql.Conn satisfy it.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
// Typical use:
//
//	err := dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "UPDATE ...")
//	    return err
//	})
func WithTx(ctx context.Context, db Beginner, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}

// Acquire takes a dedicated connection from the pool, waiting at most
// timeout. An exhausted pool yields common.ErrorResourceExhausted instead of
// blocking the caller indefinitely. A non-positive timeout waits for ctx only.
func Acquire(ctx context.Context, db *sql.DB, timeout time.Duration) (*sql.Conn, error) {
	acquireCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	conn, err := db.Conn(acquireCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, common.ErrorResourceExhausted
		}
		return nil, Classify(err)
	}
	return conn, nil
}

// WithConn runs fn on a pooled connection obtained via Acquire and always
// returns the connection to the pool.
func WithConn(ctx context.Context, db *sql.DB, timeout time.Duration, fn func(ctx context.Context, conn *sql.Conn) error) error {
	conn, err := Acquire(ctx, db, timeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(ctx, conn)
}
