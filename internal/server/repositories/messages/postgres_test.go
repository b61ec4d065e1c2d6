package messages

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
	columns = []string{"id", "sender_id", "recipient_id", "group_id", "is_group", "content", "sent_at", "edited_at", "is_deleted", "deleted_sender", "deleted_recipient", "attachment_key"}
	sent    = time.Date(2026, 4, 4, 9, 30, 0, 0, time.UTC)
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func ptr(s string) *string { return &s }

func TestCreate_DirectMessage(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+messages\s*\(id,\s*sender_id,\s*recipient_id,\s*group_id,\s*is_group,\s*content,\s*sent_at\)`).
		WithArgs("m1", "u1", "u2", nil, false, []byte("ciphertext"), sent).
		WillReturnResult(sqlmock.NewResult(0, 1))

	m := &models.Message{ID: "m1", SenderID: ptr("u1"), RecipientID: ptr("u2"), Content: []byte("ciphertext"), SentAt: sent}
	require.NoError(t, repo.Create(context.Background(), m))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_ScansNullableColumns(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*sender_id,.*FROM\s+messages\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("m1", nil, "u2", nil, false, []byte("x"), sent, nil, false, "u1", nil, nil))

	got, err := repo.GetByID(context.Background(), "m1")
	require.NoError(t, err)
	assert.Nil(t, got.SenderID)
	require.NotNil(t, got.DeletedSender)
	assert.Equal(t, "u1", *got.DeletedSender)
	assert.Equal(t, "u2", *got.RecipientID)
	assert.Nil(t, got.EditedAt)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+messages`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "m1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMarkSenderDeleted(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE\s+messages\s+SET\s+deleted_sender\s*=\s*\$1,\s*sender_id\s*=\s*NULL\s+WHERE\s+sender_id\s*=\s*\$1$`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 5))

	n, err := repo.MarkSenderDeleted(context.Background(), "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
}

func TestMarkRecipientDeleted(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE\s+messages\s+SET\s+deleted_recipient\s*=\s*\$1,\s*recipient_id\s*=\s*NULL\s+WHERE\s+recipient_id\s*=\s*\$1$`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.MarkRecipientDeleted(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListDirect(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	before := sent.Add(time.Hour)
	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+messages\s+WHERE\s+NOT\s+is_group.*sent_at\s*<\s*\$3.*ORDER\s+BY\s+sent_at\s+DESC,\s*id\s+DESC\s+LIMIT\s+\$4$`).
		WithArgs("u1", "u2", before, 20).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("m2", "u2", "u1", nil, false, []byte("b"), sent.Add(time.Minute), nil, false, nil, nil, nil).
			AddRow("m1", "u1", "u2", nil, false, []byte("a"), sent, nil, false, nil, nil, nil))

	got, err := repo.ListDirect(context.Background(), "u1", "u2", before, 20)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m2", got[0].ID)
}

func TestUpdateContent_Missing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE\s+messages\s+SET\s+content\s*=\s*\$2,\s*edited_at\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("m1", []byte("new"), sent).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateContent(context.Background(), "m1", []byte("new"), sent)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteByGroup_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE\s+FROM\s+messages\s+WHERE\s+group_id`).WillReturnError(errors.New("db err"))

	_, err := repo.DeleteByGroup(context.Background(), "g1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db err")
}
