package notifications

import (
	"context"
	"fmt"

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

func (r *PostgresRepository) Create(ctx context.Context, n *models.Notification) error {
	query :=
		`INSERT INTO notifications (id, user_id, type, content, is_read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, n.ID, n.UserID, n.Type, n.Content, n.IsRead, n.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]*models.Notification, error) {
	query :=
		`SELECT id, user_id, type, content, is_read, created_at FROM notifications
		 WHERE user_id = $1 AND (NOT $2 OR NOT is_read)
		 ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Content, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) MarkRead(ctx context.Context, id, userID string) error {
	return r.execOne(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	return r.execOne(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	return r.exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
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

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	n, err := r.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
