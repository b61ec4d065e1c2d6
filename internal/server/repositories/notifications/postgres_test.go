package notifications

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ts = time.Date(2026, 8, 8, 8, 0, 0, 0, time.UTC)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+notifications\s*\(id,\s*user_id,\s*type,\s*content,\s*is_read,\s*created_at\)`).
		WithArgs("n1", "u1", models.NotificationGroupOwner, "g1", false, ts).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n := &models.Notification{ID: "n1", UserID: "u1", Type: models.NotificationGroupOwner, Content: "g1", CreatedAt: ts}
	require.NoError(t, repo.Create(context.Background(), n))
}

func TestListByUser_UnreadOnly(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+notifications\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+\(NOT\s+\$2\s+OR\s+NOT\s+is_read\)`).
		WithArgs("u1", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "content", "is_read", "created_at"}).
			AddRow("n2", "u1", "GROUP_INVITE", "g1", false, ts))

	got, err := repo.ListByUser(context.Background(), "u1", true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "GROUP_INVITE", got[0].Type)
}

func TestMarkRead_OtherUsersRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE\s+notifications\s+SET\s+is_read\s*=\s*TRUE\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`).
		WithArgs("n1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkRead(context.Background(), "n1", "intruder")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE\s+FROM\s+notifications\s+WHERE\s+user_id\s*=\s*\$1$`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := repo.DeleteByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
}
