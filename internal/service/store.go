// Package service holds the identity, ledger and aggregation logic. Every
// operation on expenses takes the caller's user id explicitly; nothing here
// reads the caller from ambient state.
package service

import (
	"context"

	"github.com/crucial707/expense-tracker/internal/models"
)

// UserStore is the credential store. Create fails with repo.ErrDuplicateEmail
// and lookups with repo.ErrNotFound.
type UserStore interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// ExpenseStore persists expenses. Update and Delete only touch a row whose
// id and owner both match, reporting repo.ErrNotFound otherwise.
type ExpenseStore interface {
	Create(ctx context.Context, e *models.Expense) (*models.Expense, error)
	GetByID(ctx context.Context, id int64) (*models.Expense, error)
	Update(ctx context.Context, e *models.Expense) (*models.Expense, error)
	Delete(ctx context.Context, id, userID int64) error
	ListByOwner(ctx context.Context, userID int64, p models.PageParams) (*models.ExpensePage, error)
	ListByOwnerInRange(ctx context.Context, userID int64, start, end models.Date) ([]models.Expense, error)
}

// AuditLogger records who changed what.
type AuditLogger interface {
	Log(ctx context.Context, userID int64, action, resourceType string, resourceID int64, details string) error
}

type noopAudit struct{}

func (noopAudit) Log(context.Context, int64, string, string, int64, string) error { return nil }
