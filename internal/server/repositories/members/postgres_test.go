package members

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
	columns = []string{"group_id", "user_id", "role", "joined_at"}
	joined  = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	key     = models.MembershipKey{GroupID: "g1", UserID: "u2"}
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestAdd(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^INSERT\s+INTO\s+group_members\s*\(group_id,\s*user_id,\s*role,\s*joined_at\)`).
		WithArgs("g1", "u2", models.RoleMember, joined).
		WillReturnResult(sqlmock.NewResult(0, 1))

	m := &models.Membership{MembershipKey: key, Role: models.RoleMember, JoinedAt: joined}
	require.NoError(t, repo.Add(context.Background(), m))
}

func TestGetForUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT\s+group_id,\s*user_id,\s*role,\s*joined_at\s+FROM\s+group_members\s+WHERE\s+group_id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s+FOR\s+UPDATE$`).
		WithArgs("g1", "u2").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("g1", "u2", "member", joined))

	got, err := repo.GetForUpdate(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, key, got.MembershipKey)
	assert.Equal(t, "member", got.Role)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT\s+.*FROM\s+group_members\s+WHERE\s+group_id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`).
		WithArgs("g1", "u2").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), key)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListByGroup_Ordered(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+group_members\s+WHERE\s+group_id\s*=\s*\$1\s+ORDER\s+BY\s+joined_at,\s*user_id$`).
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("g1", "u1", "owner", joined).
			AddRow("g1", "u2", "member", joined.Add(time.Hour)))

	got, err := repo.ListByGroup(context.Background(), "g1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "u1", got[0].UserID)
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `^DELETE\s+FROM\s+group_members\s+WHERE\s+group_id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`
	mock.ExpectExec(q).WithArgs("g1", "u2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("g1", "u2").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), key))
	assert.ErrorIs(t, repo.Delete(context.Background(), key), common.ErrorNotFound)
}

func TestDeleteByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE\s+FROM\s+group_members\s+WHERE\s+user_id\s*=\s*\$1$`).
		WithArgs("u2").
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.DeleteByUser(context.Background(), "u2")
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

func TestUpdateRole_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE\s+group_members\s+SET\s+role`).WillReturnError(errors.New("db err"))

	err := repo.UpdateRole(context.Background(), key, "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db err")
}
