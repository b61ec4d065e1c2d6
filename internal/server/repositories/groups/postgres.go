package groups

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

func (r *PostgresRepository) Create(ctx context.Context, g *models.Group) error {
	query := `INSERT INTO groups (id, name, owner_id, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, g.ID, g.Name, g.OwnerID, g.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	return r.getOne(ctx, `SELECT id, name, owner_id, created_at FROM groups WHERE id = $1`, id)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Group, error) {
	return r.getOne(ctx, `SELECT id, name, owner_id, created_at FROM groups WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query, id string) (*models.Group, error) {
	g := &models.Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name, &g.OwnerID, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return g, nil
}

func (r *PostgresRepository) ListForMember(ctx context.Context, userID string) ([]*models.Group, error) {
	query :=
		`SELECT g.id, g.name, g.owner_id, g.created_at
		 FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = $1
		 ORDER BY g.created_at, g.id`
	return r.list(ctx, query, userID)
}

// LockOwnedBy takes row locks on the owned groups so a concurrent transfer
// cannot interleave with the user-deletion cascade.
func (r *PostgresRepository) LockOwnedBy(ctx context.Context, ownerID string) ([]*models.Group, error) {
	query :=
		`SELECT id, name, owner_id, created_at
		 FROM groups
		 WHERE owner_id = $1
		 ORDER BY id
		 FOR UPDATE`
	return r.list(ctx, query, ownerID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg string) ([]*models.Group, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Group
	for rows.Next() {
		g := &models.Group{}
		if err := rows.Scan(&g.ID, &g.Name, &g.OwnerID, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) UpdateName(ctx context.Context, id, name string) error {
	return r.execOne(ctx, `UPDATE groups SET name = $2 WHERE id = $1`, id, name)
}

func (r *PostgresRepository) UpdateOwner(ctx context.Context, id, ownerID string) error {
	return r.execOne(ctx, `UPDATE groups SET owner_id = $2 WHERE id = $1`, id, ownerID)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM groups WHERE id = $1`, id)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
