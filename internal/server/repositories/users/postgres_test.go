package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/avasiliev/authkeeper/internal/common"
	"github.com/avasiliev/authkeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func userRows(u *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at", "updated_at"}).
		AddRow(u.ID, u.UserName, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*username,\s*email,\s*password_hash\)\s+VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*$`

	mock.ExpectExec(q).
		WithArgs("u1", "alice", "a@x.com", "hash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.User{
		ID: "u1", UserName: "alice", Email: "a@x.com", PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\b`

	mock.ExpectExec(q).
		WithArgs("u1", "alice", "a@x.com", "hash").
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.User{
		ID: "u1", UserName: "alice", Email: "a@x.com", PasswordHash: "hash",
	})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByLogin_MatchesUsernameOrEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*username,.*FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s+OR\s+email\s*=\s*\$1\s*$`

	now := time.Now()
	u := &models.User{ID: "u1", UserName: "alice", Email: "a@x.com", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery(q).WithArgs("a@x.com").WillReturnRows(userRows(u))

	got, err := repo.GetByLogin(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "u1" || got.UserName != "alice" || got.PasswordHash != "hash" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestGetByLogin_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*username,.*FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s+OR\s+email\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).WithArgs("nouser").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByLogin(context.Background(), "nouser")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByUsername_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*username,.*FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s*$`

	now := time.Now()
	u := &models.User{ID: "u1", UserName: "alice", Email: "a@x.com", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery(q).WithArgs("alice").WillReturnRows(userRows(u))

	got, err := repo.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserName != "alice" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*username,.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestFindConflict_PrefersUsernameMatch(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*username,.*FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s+OR\s+email\s*=\s*\$2\s+ORDER\s+BY\s+username\s*=\s*\$1\s+DESC\s+LIMIT\s+1\s*$`

	now := time.Now()
	u := &models.User{ID: "u1", UserName: "alice", Email: "other@x.com", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery(q).WithArgs("alice", "a@x.com").WillReturnRows(userRows(u))

	got, err := repo.FindConflict(context.Background(), "alice", "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserName != "alice" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestFindConflict_NoCollision(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*username,.*FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s+OR\s+email\s*=\s*\$2\b`

	mock.ExpectQuery(q).WithArgs("bob", "b@x.com").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindConflict(context.Background(), "bob", "b@x.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
