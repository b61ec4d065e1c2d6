package sessions

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
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var (
	created = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	expires = created.Add(24 * time.Hour)
)

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+sessions\b.*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*$`
	mock.ExpectExec(q).
		WithArgs("s1", "u1", "tok123", expires, created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := &models.Session{ID: "s1", UserID: "u1", Token: "tok123", ExpiresAt: expires, CreatedAt: created}
	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+sessions\b`).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.Session{ID: "s1"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByToken_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*user_id,\s*token,\s*expires_at,\s*created_at\s+FROM\s+sessions\s+WHERE\s+token\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).
		WithArgs("tok123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "created_at"}).
			AddRow("s1", "u1", "tok123", expires, created))

	got, err := repo.GetByToken(context.Background(), "tok123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "s1" || got.UserID != "u1" || !got.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+sessions\s+WHERE\s+id\s*=\s*\$1\s*$`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestListByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+sessions\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at,\s*id\s*$`
	mock.ExpectQuery(q).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "created_at"}).
			AddRow("s1", "u1", "t1", expires, created).
			AddRow("s2", "u1", "t2", expires, created.Add(time.Minute)))

	got, err := repo.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "s1" || got[1].ID != "s2" {
		t.Fatalf("unexpected sessions: %+v", got)
	}
}

func TestDelete_MissingIsNotAnError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE\s+FROM\s+sessions\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteExpired(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := created.Add(48 * time.Hour)
	mock.ExpectExec(`^DELETE\s+FROM\s+sessions\s+WHERE\s+expires_at\s*<\s*\$1$`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("want 3 removed, got %d", n)
	}
}

func TestDeleteByUser_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE\s+FROM\s+sessions\s+WHERE\s+user_id`).
		WithArgs("u1").
		WillReturnError(errors.New("db err"))

	if _, err := repo.DeleteByUser(context.Background(), "u1"); err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
