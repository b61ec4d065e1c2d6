package members

import (
	"context"
	"database/sql"
	"errors"
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

func (r *PostgresRepository) Add(ctx context.Context, m *models.Membership) error {
	query := `INSERT INTO group_members (group_id, user_id, role, joined_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, m.GroupID, m.UserID, m.Role, m.JoinedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, key models.MembershipKey) (*models.Membership, error) {
	query := `SELECT group_id, user_id, role, joined_at FROM group_members WHERE group_id = $1 AND user_id = $2`
	return r.getOne(ctx, query, key)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, key models.MembershipKey) (*models.Membership, error) {
	query := `SELECT group_id, user_id, role, joined_at FROM group_members WHERE group_id = $1 AND user_id = $2 FOR UPDATE`
	return r.getOne(ctx, query, key)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, key models.MembershipKey) (*models.Membership, error) {
	m := &models.Membership{}
	err := r.db.QueryRowContext(ctx, query, key.GroupID, key.UserID).Scan(&m.GroupID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) ListByGroup(ctx context.Context, groupID string) ([]*models.Membership, error) {
	query :=
		`SELECT group_id, user_id, role, joined_at FROM group_members
		 WHERE group_id = $1
		 ORDER BY joined_at, user_id`
	return r.list(ctx, query, groupID)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Membership, error) {
	query :=
		`SELECT group_id, user_id, role, joined_at FROM group_members
		 WHERE user_id = $1
		 ORDER BY joined_at, group_id`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) list(ctx context.Context, query, arg string) ([]*models.Membership, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Membership
	for rows.Next() {
		m := &models.Membership{}
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) UpdateRole(ctx context.Context, key models.MembershipKey, role string) error {
	n, err := r.exec(ctx, `UPDATE group_members SET role = $3 WHERE group_id = $1 AND user_id = $2`, key.GroupID, key.UserID, role)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, key models.MembershipKey) error {
	n, err := r.exec(ctx, `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, key.GroupID, key.UserID)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	return r.exec(ctx, `DELETE FROM group_members WHERE user_id = $1`, userID)
}

func (r *PostgresRepository) DeleteByGroup(ctx context.Context, groupID string) (int64, error) {
	return r.exec(ctx, `DELETE FROM group_members WHERE group_id = $1`, groupID)
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
