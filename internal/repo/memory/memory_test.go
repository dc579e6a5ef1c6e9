package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucial707/expense-tracker/internal/models"
	"github.com/crucial707/expense-tracker/internal/repo"
)

func TestUsers_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	s := NewUsers()

	u, err := s.Create(ctx, &models.User{Email: "a@example.com", Name: "A", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = s.Create(ctx, &models.User{Email: "a@example.com", Name: "B", PasswordHash: "h"})
	assert.ErrorIs(t, err, repo.ErrDuplicateEmail)

	_, err = s.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestUsers_ConcurrentRegistrationHasOneWinner(t *testing.T) {
	ctx := context.Background()
	s := NewUsers()

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Create(ctx, &models.User{Email: "race@example.com", Name: "R", PasswordHash: "h"}); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestExpenses_OwnerScopedWrites(t *testing.T) {
	ctx := context.Background()
	s := NewExpenses()
	e, err := s.Create(ctx, &models.Expense{UserID: 1, Amount: decimal.NewFromInt(5), Category: "Food", Date: models.NewDate(2025, time.April, 1)})
	require.NoError(t, err)

	_, err = s.Update(ctx, &models.Expense{ID: e.ID, UserID: 2, Amount: decimal.NewFromInt(1), Category: "X"})
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, e.ID, 2), repo.ErrNotFound)

	require.NoError(t, s.Delete(ctx, e.ID, 1))
	assert.ErrorIs(t, s.Delete(ctx, e.ID, 1), repo.ErrNotFound)
}

func TestExpenses_ListByOwner(t *testing.T) {
	ctx := context.Background()
	s := NewExpenses()
	for i, amt := range []int64{30, 10, 20} {
		_, err := s.Create(ctx, &models.Expense{UserID: 1, Amount: decimal.NewFromInt(amt), Category: "C", Date: models.NewDate(2025, time.April, i+1)})
		require.NoError(t, err)
	}
	_, err := s.Create(ctx, &models.Expense{UserID: 2, Amount: decimal.NewFromInt(1), Category: "C", Date: models.NewDate(2025, time.April, 1)})
	require.NoError(t, err)

	page, err := s.ListByOwner(ctx, 1, models.PageParams{Size: 2, Sort: models.SortByAmount})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalItems)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "10", page.Items[0].Amount.String())

	page, err = s.ListByOwner(ctx, 1, models.PageParams{Page: 5, Size: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)

	page, err = s.ListByOwner(ctx, 1, models.PageParams{Page: 461168601842738791, Size: 20})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 3, page.TotalItems)
}

func TestExpenses_ListByOwnerInRange(t *testing.T) {
	ctx := context.Background()
	s := NewExpenses()
	for _, d := range []models.Date{
		models.NewDate(2025, time.April, 30),
		models.NewDate(2025, time.March, 31),
		models.NewDate(2025, time.April, 1),
	} {
		_, err := s.Create(ctx, &models.Expense{UserID: 1, Amount: decimal.NewFromInt(1), Category: "C", Date: d})
		require.NoError(t, err)
	}

	items, err := s.ListByOwnerInRange(ctx, 1, models.NewDate(2025, time.April, 1), models.NewDate(2025, time.April, 30))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Date.Day)
	assert.Equal(t, 30, items[1].Date.Day)
}

func TestAudit_NewestFirstPerUser(t *testing.T) {
	ctx := context.Background()
	a := NewAudit()
	require.NoError(t, a.Log(ctx, 1, models.AuditCreate, models.ResourceExpense, 1, ""))
	require.NoError(t, a.Log(ctx, 2, models.AuditCreate, models.ResourceExpense, 2, ""))
	require.NoError(t, a.Log(ctx, 1, models.AuditUpdate, models.ResourceExpense, 1, ""))

	entries, err := a.ListByUser(ctx, 1, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.AuditUpdate, entries[0].Action)

	entries, err = a.ListByUser(ctx, 1, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
