package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "username", "email", "password_hash", "password_salt", "public_key", "encrypted_private_key", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func sampleUser() *models.User {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &models.User{
		ID: "u-1", Username: "alice", Email: "alice@example.com",
		PasswordHash: "$argon2id$...", PasswordSalt: []byte("salt"),
		PublicKey: "pk", EncryptedPrivateKey: "epk",
		CreatedAt: ts, UpdatedAt: ts,
	}
}

func userRow(u *models.User) *sqlmock.Rows {
	return sqlmock.NewRows(columns).AddRow(u.ID, u.Username, u.Email, u.PasswordHash, u.PasswordSalt,
		u.PublicKey, u.EncryptedPrivateKey, u.CreatedAt, u.UpdatedAt)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := sampleUser()
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users\s*\(id,\s*username,.*VALUES\s*\(\$1,.*\$9\)$`).
		WithArgs(u.ID, u.Username, u.Email, u.PasswordHash, u.PasswordSalt, u.PublicKey, u.EncryptedPrivateKey, u.CreatedAt, u.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), u))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users`).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), sampleUser())
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestGetByUsername_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := sampleUser()
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*username,.*FROM\s+users\s+WHERE\s+username\s*=\s*\$1$`).
		WithArgs("alice").
		WillReturnRows(userRow(u))

	got, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+users`).WillReturnError(errors.New("db err"))

	_, err := repo.GetByID(context.Background(), "u-1")
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db err`, err.Error())
}

func TestUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := sampleUser()
	q := `(?s)^UPDATE\s+users\s+SET\s+email\s*=\s*\$2,.*WHERE\s+id\s*=\s*\$1$`
	mock.ExpectExec(q).
		WithArgs(u.ID, u.Email, u.PasswordHash, u.PasswordSalt, u.PublicKey, u.EncryptedPrivateKey, u.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Update(context.Background(), u))
	assert.ErrorIs(t, repo.Update(context.Background(), u), common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`).WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^DELETE\s+FROM\s+users`).WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "u-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "u-1"), common.ErrorNotFound)
}

func TestSearch_EscapesPattern(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := sampleUser()
	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+username\s+LIKE\s+\$1.*ORDER\s+BY\s+username\s+LIMIT\s+\$2$`).
		WithArgs(`al\_%`, 10).
		WillReturnRows(userRow(u))

	got, err := repo.Search(context.Background(), "al_", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0].Username)
}
