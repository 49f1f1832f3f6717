package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateUserMapsUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	u := User{ID: "u-1", Email: "sam@x.io", PasswordHash: "hash", Name: "Sam", CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec("INSERT INTO user_accounts").
		WithArgs(u.ID, u.Email, u.PasswordHash, u.Name, sqlmock.AnyArg(), now, now).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: userEmailConstraint})

	if err := repo.CreateUser(context.Background(), u); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetCompanyDecodesProfile(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "company_name", "profile", "created_at", "updated_at"}).
		AddRow("c-1", "hr@acme.io", "hash", "Ann", "Acme", []byte(`{"industry":"IT","logo":"/api/blobs/l.png","foundedYear":1999,"social":{"twitter":"@acme"}}`), now, now)

	mock.ExpectQuery("SELECT id, email, password_hash, name, company_name, profile").
		WithArgs("hr@acme.io").
		WillReturnRows(rows)

	c, err := repo.GetCompanyByEmail(context.Background(), "hr@acme.io")
	if err != nil {
		t.Fatalf("GetCompanyByEmail: %v", err)
	}
	if c.CompanyName != "Acme" || c.Industry != "IT" || c.Logo != "/api/blobs/l.png" || c.Social.Twitter != "@acme" {
		t.Fatalf("unexpected company %+v", c)
	}
	if c.FoundedYear == nil || *c.FoundedYear != 1999 || c.Role != RoleCompany {
		t.Fatalf("unexpected company %+v", c)
	}
}

func TestPGRepoGetUserNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM user_accounts").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "profile", "created_at", "updated_at"}))

	if _, err := repo.GetUserByID(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPGRepoUpdateUserWithoutRowIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	u := User{ID: "u-1", Name: "Sam", UpdatedAt: time.Now().UTC()}
	u.Skills = []string{"go"}

	mock.ExpectExec("UPDATE user_accounts").
		WithArgs(u.ID, u.Name, sqlmock.AnyArg(), u.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateUser(context.Background(), u); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
