package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crucial707/expense-tracker/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

// ExpenseRepo stores expenses. Every read and write past GetByID is scoped
// to an owner.
type ExpenseRepo struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewExpenseRepo(db *sql.DB, dialect Dialect) *ExpenseRepo {
	return &ExpenseRepo{DB: db, Dialect: dialect}
}

const expenseColumns = `id, user_id, amount, COALESCE(description, ''), category, spent_on, created_at`

func scanExpense(s interface{ Scan(...any) error }) (models.Expense, error) {
	var e models.Expense
	err := s.Scan(&e.ID, &e.UserID, &e.Amount, &e.Description, &e.Category, &e.Date, timeColumn{&e.CreatedAt})
	return e, err
}

// ========================
// CREATE EXPENSE
// ========================

func (r *ExpenseRepo) Create(ctx context.Context, e *models.Expense) (*models.Expense, error) {
	row := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(
		`INSERT INTO expenses (user_id, amount, description, category, spent_on, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+expenseColumns),
		e.UserID, e.Amount, e.Description, e.Category, e.Date, time.Now().UTC(),
	)
	created, err := scanExpense(row)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}
	return &created, nil
}

// ========================
// GET EXPENSE BY ID
// ========================

// GetByID is unscoped so callers can tell a missing row from a foreign one.
func (r *ExpenseRepo) GetByID(ctx context.Context, id int64) (*models.Expense, error) {
	row := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(
		`SELECT `+expenseColumns+`
		 FROM expenses
		 WHERE id = $1`),
		id,
	)
	e, err := scanExpense(row)
	if err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

// ========================
// UPDATE EXPENSE
// ========================

// Update writes the editable fields of e. The owner is part of the WHERE
// clause and is never written, so a row owned by someone else is untouched
// and reported as ErrNotFound.
func (r *ExpenseRepo) Update(ctx context.Context, e *models.Expense) (*models.Expense, error) {
	row := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(
		`UPDATE expenses
		 SET amount = $1, description = $2, category = $3, spent_on = $4
		 WHERE id = $5 AND user_id = $6
		 RETURNING `+expenseColumns),
		e.Amount, e.Description, e.Category, e.Date, e.ID, e.UserID,
	)
	updated, err := scanExpense(row)
	if err != nil {
		return nil, notFound(err)
	}
	return &updated, nil
}

// ========================
// DELETE EXPENSE
// ========================

func (r *ExpenseRepo) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(
		`DELETE FROM expenses WHERE id = $1 AND user_id = $2`),
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ========================
// LIST EXPENSES WITH PAGINATION
// ========================

func (r *ExpenseRepo) ListByOwner(ctx context.Context, userID int64, p models.PageParams) (*models.ExpensePage, error) {
	p = p.Normalize()

	var total int
	err := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(
		`SELECT COUNT(*) FROM expenses WHERE user_id = $1`), userID,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count expenses: %w", err)
	}

	dir := "DESC"
	if !p.Desc {
		dir = "ASC"
	}
	query := fmt.Sprintf(
		`SELECT %s FROM expenses WHERE user_id = $1 ORDER BY %s %s, id %s LIMIT $2 OFFSET $3`,
		expenseColumns, r.Dialect.orderColumn(p.Sort), dir, dir,
	)

	items, err := r.query(ctx, r.Dialect.Rebind(query), userID, p.Size, p.Offset())
	if err != nil {
		return nil, err
	}
	return models.NewExpensePage(items, p, total), nil
}

// ========================
// LIST EXPENSES IN DATE RANGE
// ========================

// ListByOwnerInRange returns the owner's expenses with start <= date <= end,
// oldest first.
func (r *ExpenseRepo) ListByOwnerInRange(ctx context.Context, userID int64, start, end models.Date) ([]models.Expense, error) {
	return r.query(ctx, r.Dialect.Rebind(
		`SELECT `+expenseColumns+`
		 FROM expenses
		 WHERE user_id = $1 AND spent_on >= $2 AND spent_on <= $3
		 ORDER BY spent_on, id`),
		userID, start, end,
	)
}

func (r *ExpenseRepo) query(ctx context.Context, query string, args ...any) ([]models.Expense, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
