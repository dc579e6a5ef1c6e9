package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/crucial707/expense-tracker/internal/events"
	"github.com/crucial707/expense-tracker/internal/metrics"
	"github.com/crucial707/expense-tracker/internal/models"
	"github.com/crucial707/expense-tracker/internal/repo"
)

// Ledger is the owner-scoped CRUD surface over expenses.
type Ledger struct {
	expenses  ExpenseStore
	audit     AuditLogger
	publisher events.Publisher
	today     func() models.Date
	log       *slog.Logger
}

type LedgerOption func(*Ledger)

// WithAudit records every successful mutation in a.
func WithAudit(a AuditLogger) LedgerOption {
	return func(l *Ledger) { l.audit = a }
}

// WithPublisher announces every successful mutation on p.
func WithPublisher(p events.Publisher) LedgerOption {
	return func(l *Ledger) { l.publisher = p }
}

// WithToday overrides the clock used to default missing dates.
func WithToday(today func() models.Date) LedgerOption {
	return func(l *Ledger) { l.today = today }
}

func WithLogger(log *slog.Logger) LedgerOption {
	return func(l *Ledger) { l.log = log }
}

func NewLedger(expenses ExpenseStore, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		expenses:  expenses,
		audit:     noopAudit{},
		publisher: events.Noop{},
		today:     models.Today,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.With("component", "ledger")
	return l
}

// maxAmount is the exclusive upper bound of a NUMERIC(14,2) column.
var maxAmount = decimal.New(1, 12)

func (l *Ledger) validate(in models.ExpenseInput) (models.ExpenseInput, error) {
	// Amounts must survive every backend unchanged: positive, at most two
	// decimal places, below maxAmount.
	if !in.Amount.IsPositive() || !in.Amount.Equal(in.Amount.Truncate(2)) || in.Amount.GreaterThanOrEqual(maxAmount) {
		return in, ErrInvalidAmount
	}
	if strings.TrimSpace(in.Category) == "" {
		return in, ErrInvalidCategory
	}
	if in.Date.IsZero() {
		in.Date = l.today()
	}
	return in, nil
}

// Create records a new expense owned by callerID.
func (l *Ledger) Create(ctx context.Context, callerID int64, in models.ExpenseInput) (e *models.Expense, err error) {
	defer func() { metrics.RecordLedgerOp("create", err) }()

	in, err = l.validate(in)
	if err != nil {
		return nil, err
	}

	e, err = l.expenses.Create(ctx, &models.Expense{
		UserID:      callerID,
		Amount:      in.Amount,
		Description: in.Description,
		Category:    in.Category,
		Date:        in.Date,
	})
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	l.record(ctx, models.AuditCreate, events.ExpenseCreated, e)
	return e, nil
}

// List returns one page of the caller's own expenses.
func (l *Ledger) List(ctx context.Context, callerID int64, p models.PageParams) (*models.ExpensePage, error) {
	page, err := l.expenses.ListByOwner(ctx, callerID, p)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return page, nil
}

// Get returns an expense the caller owns.
func (l *Ledger) Get(ctx context.Context, callerID, id int64) (*models.Expense, error) {
	return l.owned(ctx, callerID, id)
}

// Update replaces the editable fields of an expense the caller owns. The
// ownership check runs before validation and before any write.
func (l *Ledger) Update(ctx context.Context, callerID, id int64, in models.ExpenseInput) (e *models.Expense, err error) {
	defer func() { metrics.RecordLedgerOp("update", err) }()

	if _, err = l.owned(ctx, callerID, id); err != nil {
		return nil, err
	}
	in, err = l.validate(in)
	if err != nil {
		return nil, err
	}

	e, err = l.expenses.Update(ctx, &models.Expense{
		ID:          id,
		UserID:      callerID,
		Amount:      in.Amount,
		Description: in.Description,
		Category:    in.Category,
		Date:        in.Date,
	})
	if err != nil {
		// deleted between the check and the write
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update expense: %w", err)
	}

	l.record(ctx, models.AuditUpdate, events.ExpenseUpdated, e)
	return e, nil
}

// Delete permanently removes an expense the caller owns. Deleting the same id
// again yields ErrNotFound.
func (l *Ledger) Delete(ctx context.Context, callerID, id int64) (err error) {
	defer func() { metrics.RecordLedgerOp("delete", err) }()

	e, err := l.owned(ctx, callerID, id)
	if err != nil {
		return err
	}
	if err = l.expenses.Delete(ctx, id, callerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete expense: %w", err)
	}

	l.record(ctx, models.AuditDelete, events.ExpenseDeleted, e)
	return nil
}

func (l *Ledger) owned(ctx context.Context, callerID, id int64) (*models.Expense, error) {
	e, err := l.expenses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	if e.UserID != callerID {
		return nil, ErrForbidden
	}
	return e, nil
}

// record writes the audit entry and publishes the event. Neither can fail the
// mutation that already committed.
func (l *Ledger) record(ctx context.Context, action, eventType string, e *models.Expense) {
	details := fmt.Sprintf("amount=%s category=%q date=%s", e.Amount, e.Category, e.Date)
	if err := l.audit.Log(ctx, e.UserID, action, models.ResourceExpense, e.ID, details); err != nil {
		metrics.IncSideEffectFailure("audit")
		l.log.WarnContext(ctx, "audit log write failed", "action", action, "expense_id", e.ID, "error", err)
	}
	if err := l.publisher.Publish(ctx, events.NewExpenseEvent(eventType, e)); err != nil {
		metrics.IncSideEffectFailure("event")
		l.log.WarnContext(ctx, "event publish failed", "type", eventType, "expense_id", e.ID, "error", err)
	}
}
