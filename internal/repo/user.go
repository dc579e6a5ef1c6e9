package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crucial707/expense-tracker/internal/models"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB      *sql.DB
	Dialect Dialect
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB, dialect Dialect) *UserRepo {
	return &UserRepo{DB: db, Dialect: dialect}
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	query := r.Dialect.Rebind(`
		INSERT INTO users (email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, name, password_hash, created_at
	`)

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, u.Email, u.Name, u.PasswordHash, time.Now().UTC()).
		Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, timeColumn{&user.CreatedAt})

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := r.Dialect.Rebind(`
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE id = $1
	`)
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

// ==========================
// Get By Email
// ==========================
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := r.Dialect.Rebind(`
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE email = $1
	`)
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *UserRepo) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, timeColumn{&user.CreatedAt})
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}
