package reactions

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

func (r *PostgresRepository) Add(ctx context.Context, rc *models.Reaction) error {
	query := `INSERT INTO reactions (user_id, message_id, emoji, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, rc.UserID, rc.MessageID, rc.Emoji, rc.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, key models.ReactionKey) error {
	n, err := r.exec(ctx, `DELETE FROM reactions WHERE user_id = $1 AND message_id = $2 AND emoji = $3`,
		key.UserID, key.MessageID, key.Emoji)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ListByMessage(ctx context.Context, messageID string) ([]*models.Reaction, error) {
	query :=
		`SELECT user_id, message_id, emoji, created_at FROM reactions
		 WHERE message_id = $1
		 ORDER BY created_at, user_id, emoji`

	rows, err := r.db.QueryContext(ctx, query, messageID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Reaction
	for rows.Next() {
		rc := &models.Reaction{}
		if err := rows.Scan(&rc.UserID, &rc.MessageID, &rc.Emoji, &rc.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	return r.exec(ctx, `DELETE FROM reactions WHERE user_id = $1`, userID)
}

func (r *PostgresRepository) DeleteByMessage(ctx context.Context, messageID string) (int64, error) {
	return r.exec(ctx, `DELETE FROM reactions WHERE message_id = $1`, messageID)
}

func (r *PostgresRepository) DeleteByGroup(ctx context.Context, groupID string) (int64, error) {
	return r.exec(ctx, `DELETE FROM reactions WHERE message_id IN (SELECT id FROM messages WHERE group_id = $1)`, groupID)
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
