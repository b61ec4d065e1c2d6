package groups

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	columns = []string{"id", "name", "owner_id", "created_at"}
	created = time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^INSERT\s+INTO\s+groups\s*\(id,\s*name,\s*owner_id,\s*created_at\)\s*VALUES`).
		WithArgs("g1", "Team", "u1", created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), &models.Group{ID: "g1", Name: "Team", OwnerID: "u1", CreatedAt: created}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetForUpdate_LocksRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT\s+id,\s*name,\s*owner_id,\s*created_at\s+FROM\s+groups\s+WHERE\s+id\s*=\s*\$1\s+FOR\s+UPDATE$`).
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("g1", "Team", "u1", created))

	g, err := repo.GetForUpdate(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, &models.Group{ID: "g1", Name: "Team", OwnerID: "u1", CreatedAt: created}, g)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT\s+.*FROM\s+groups\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLockOwnedBy(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+groups\s+WHERE\s+owner_id\s*=\s*\$1\s+ORDER\s+BY\s+id\s+FOR\s+UPDATE$`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("g1", "A", "u1", created).
			AddRow("g2", "B", "u1", created))

	got, err := repo.LockOwnedBy(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "g2", got[1].ID)
}

func TestListForMember_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+g\.id.*JOIN\s+group_members`).WillReturnError(errors.New("db err"))

	_, err := repo.ListForMember(context.Background(), "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db err")
}

func TestUpdateOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE\s+groups\s+SET\s+owner_id\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("g1", "u2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^UPDATE\s+groups\s+SET\s+owner_id`).
		WithArgs("g9", "u2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateOwner(context.Background(), "g1", "u2"))
	assert.ErrorIs(t, repo.UpdateOwner(context.Background(), "g9", "u2"), common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE\s+FROM\s+groups\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("g1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "g1"))
}
