package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single ledger entry owned by exactly one user.
type Expense struct {
	ID          int64           `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        Date            `json:"date"`
	UserID      int64           `json:"user_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ExpenseInput carries the caller-editable fields of an expense.
// A zero Date means "today".
type ExpenseInput struct {
	Amount      decimal.Decimal
	Description string
	Category    string
	Date        Date
}

// MonthlyReport summarises one calendar month of a user's expenses.
type MonthlyReport struct {
	Year       int                        `json:"year"`
	Month      int                        `json:"month"`
	StartDate  Date                       `json:"start_date"`
	EndDate    Date                       `json:"end_date"`
	Total      decimal.Decimal            `json:"total_expenses"`
	ByCategory map[string]decimal.Decimal `json:"expenses_by_category"`
}
