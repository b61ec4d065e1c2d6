package friendships

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/dbx"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, f *models.Friendship) error {
	query :=
		`INSERT INTO friendships (user_id1, user_id2, status, requested_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query, f.UserID1, f.UserID2, string(f.Status), f.RequestedBy, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, key models.FriendshipKey) (*models.Friendship, error) {
	query :=
		`SELECT user_id1, user_id2, status, requested_by, created_at, updated_at
		 FROM friendships
		 WHERE user_id1 = $1 AND user_id2 = $2`

	f := &models.Friendship{}
	err := r.db.QueryRowContext(ctx, query, key.UserID1, key.UserID2).
		Scan(&f.UserID1, &f.UserID2, &f.Status, &f.RequestedBy, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, key models.FriendshipKey, status models.FriendshipStatus, updatedAt time.Time) error {
	query := `UPDATE friendships SET status = $3, updated_at = $4 WHERE user_id1 = $1 AND user_id2 = $2`

	n, err := r.exec(ctx, query, key.UserID1, key.UserID2, string(status), updatedAt)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, key models.FriendshipKey) error {
	n, err := r.exec(ctx, `DELETE FROM friendships WHERE user_id1 = $1 AND user_id2 = $2`, key.UserID1, key.UserID2)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Friendship, error) {
	query :=
		`SELECT user_id1, user_id2, status, requested_by, created_at, updated_at
		 FROM friendships
		 WHERE user_id1 = $1 OR user_id2 = $1
		 ORDER BY created_at, user_id1, user_id2`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Friendship
	for rows.Next() {
		f := &models.Friendship{}
		if err := rows.Scan(&f.UserID1, &f.UserID2, &f.Status, &f.RequestedBy, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	return r.exec(ctx, `DELETE FROM friendships WHERE user_id1 = $1 OR user_id2 = $1`, userID)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
