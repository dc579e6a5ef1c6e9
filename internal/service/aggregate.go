package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crucial707/expense-tracker/internal/models"
)

// Aggregator reduces a caller's expenses over inclusive date ranges.
type Aggregator struct {
	expenses ExpenseStore
}

func NewAggregator(expenses ExpenseStore) *Aggregator {
	return &Aggregator{expenses: expenses}
}

// TotalInRange sums the caller's expenses dated start..end inclusive. No
// matches, including an inverted range, give zero.
func (a *Aggregator) TotalInRange(ctx context.Context, callerID int64, start, end models.Date) (decimal.Decimal, error) {
	items, err := a.read(ctx, callerID, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	return total(items), nil
}

// ByCategoryInRange sums the caller's in-range expenses per exact category
// label. Categories without matches are absent.
func (a *Aggregator) ByCategoryInRange(ctx context.Context, callerID int64, start, end models.Date) (map[string]decimal.Decimal, error) {
	items, err := a.read(ctx, callerID, start, end)
	if err != nil {
		return nil, err
	}
	return byCategory(items), nil
}

// MonthlyReport covers the first through last day of year-month. Both
// figures come from the same read, so Total always equals the sum of
// ByCategory.
func (a *Aggregator) MonthlyReport(ctx context.Context, callerID int64, year, month int) (*models.MonthlyReport, error) {
	if month < 1 || month > 12 || year < 1 || year > 9999 {
		return nil, ErrInvalidPeriod
	}
	start := models.FirstOfMonth(year, time.Month(month))
	end := models.LastOfMonth(year, time.Month(month))

	items, err := a.read(ctx, callerID, start, end)
	if err != nil {
		return nil, err
	}

	return &models.MonthlyReport{
		Year:       year,
		Month:      month,
		StartDate:  start,
		EndDate:    end,
		Total:      total(items),
		ByCategory: byCategory(items),
	}, nil
}

func (a *Aggregator) read(ctx context.Context, callerID int64, start, end models.Date) ([]models.Expense, error) {
	if start.After(end) {
		return nil, nil
	}
	items, err := a.expenses.ListByOwnerInRange(ctx, callerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("range query: %w", err)
	}
	return items, nil
}

func total(items []models.Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range items {
		sum = sum.Add(e.Amount)
	}
	return sum
}

func byCategory(items []models.Expense) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, e := range items {
		out[e.Category] = out[e.Category].Add(e.Amount)
	}
	return out
}
