package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/crucial707/expense-tracker/internal/models"
)

var userColumns = []string{"id", "email", "name", "password_hash", "created_at"}

func TestUserRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO users \(email, name, password_hash, created_at\)`).
		WithArgs("alice@example.com", "Alice", "digest", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "alice@example.com", "Alice", "digest", now))

	repo := NewUserRepo(db, Postgres)
	user, err := repo.Create(context.Background(), &models.User{Email: "alice@example.com", Name: "Alice", PasswordHash: "digest"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID != 1 || user.Email != "alice@example.com" || user.Name != "Alice" {
		t.Errorf("unexpected user: %+v", user)
	}
	if !user.CreatedAt.Equal(now) {
		t.Errorf("created_at = %v, want %v", user.CreatedAt, now)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	repo := NewUserRepo(db, Postgres)
	_, err = repo.Create(context.Background(), &models.User{Email: "alice@example.com", Name: "Alice", PasswordHash: "digest"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, email, name, password_hash, created_at\s+FROM users\s+WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "bob@example.com", "Bob", "digest", time.Now()))

	repo := NewUserRepo(db, Postgres)
	user, err := repo.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.ID != 1 || user.Email != "bob@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, email, name, password_hash, created_at`).
		WithArgs(999).
		WillReturnError(sql.ErrNoRows)

	repo := NewUserRepo(db, Postgres)
	_, err = repo.GetByID(context.Background(), 999)
	if err == nil {
		t.Fatal("expected error for missing user")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`WHERE email = \$1`).
		WithArgs("charlie@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(2, "charlie@example.com", "Charlie", "digest", time.Now()))

	repo := NewUserRepo(db, Postgres)
	user, err := repo.GetByEmail(context.Background(), "charlie@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if user.ID != 2 || user.PasswordHash != "digest" {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_SQLitePlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`WHERE email = \?1`).
		WithArgs("dora@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(3, "dora@example.com", "Dora", "digest", "2025-04-01 10:00:00"))

	repo := NewUserRepo(db, SQLite)
	user, err := repo.GetByEmail(context.Background(), "dora@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if user.CreatedAt.Year() != 2025 || user.CreatedAt.Month() != time.April {
		t.Errorf("text timestamp not parsed: %v", user.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
