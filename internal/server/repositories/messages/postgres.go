package messages

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

const messageColumns = `id, sender_id, recipient_id, group_id, is_group, content, sent_at, edited_at, is_deleted, deleted_sender, deleted_recipient, attachment_key`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*models.Message, error) {
	m := &models.Message{}
	err := row.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.GroupID, &m.IsGroup, &m.Content,
		&m.SentAt, &m.EditedAt, &m.IsDeleted, &m.DeletedSender, &m.DeletedRecipient, &m.AttachmentKey)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.Message) error {
	query :=
		`INSERT INTO messages (id, sender_id, recipient_id, group_id, is_group, content, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query, m.ID, m.SenderID, m.RecipientID, m.GroupID, m.IsGroup, m.Content, m.SentAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`

	m, err := scanMessage(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) UpdateContent(ctx context.Context, id string, content []byte, editedAt time.Time) error {
	return r.execOne(ctx, `UPDATE messages SET content = $2, edited_at = $3 WHERE id = $1`, id, content, editedAt)
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, id string) error {
	return r.execOne(ctx, `UPDATE messages SET is_deleted = TRUE WHERE id = $1`, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM messages WHERE id = $1`, id)
}

func (r *PostgresRepository) SetAttachment(ctx context.Context, id, key string) error {
	return r.execOne(ctx, `UPDATE messages SET attachment_key = $2 WHERE id = $1`, id, key)
}

func (r *PostgresRepository) ListDirect(ctx context.Context, userA, userB string, before time.Time, limit int) ([]*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages
		 WHERE NOT is_group
		   AND ((sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1))
		   AND sent_at < $3
		 ORDER BY sent_at DESC, id DESC
		 LIMIT $4`
	return r.list(ctx, query, userA, userB, before, limit)
}

func (r *PostgresRepository) ListByGroup(ctx context.Context, groupID string, before time.Time, limit int) ([]*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages
		 WHERE group_id = $1
		   AND sent_at < $2
		 ORDER BY sent_at DESC, id DESC
		 LIMIT $3`
	return r.list(ctx, query, groupID, before, limit)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) MarkSenderDeleted(ctx context.Context, userID string) (int64, error) {
	return r.exec(ctx, `UPDATE messages SET deleted_sender = $1, sender_id = NULL WHERE sender_id = $1`, userID)
}

func (r *PostgresRepository) MarkRecipientDeleted(ctx context.Context, userID string) (int64, error) {
	return r.exec(ctx, `UPDATE messages SET deleted_recipient = $1, recipient_id = NULL WHERE recipient_id = $1`, userID)
}

func (r *PostgresRepository) DeleteByGroup(ctx context.Context, groupID string) (int64, error) {
	return r.exec(ctx, `DELETE FROM messages WHERE group_id = $1`, groupID)
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
