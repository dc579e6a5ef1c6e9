package repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/crucial707/expense-tracker/internal/db"
	"github.com/crucial707/expense-tracker/internal/models"
)

// SQLiteSuite runs the repositories against a migrated in-memory SQLite database.
type SQLiteSuite struct {
	suite.Suite
	db       *sql.DB
	users    *UserRepo
	expenses *ExpenseRepo
	audit    *AuditRepo
	ctx      context.Context
}

func TestSQLiteSuite(t *testing.T) {
	suite.Run(t, new(SQLiteSuite))
}

func (s *SQLiteSuite) SetupTest() {
	conn, err := db.ConnectSQLite(":memory:")
	s.Require().NoError(err)
	s.Require().NoError(db.RunSQLite(conn))

	s.db = conn
	s.users = NewUserRepo(conn, SQLite)
	s.expenses = NewExpenseRepo(conn, SQLite)
	s.audit = NewAuditRepo(conn, SQLite)
	s.ctx = context.Background()
}

func (s *SQLiteSuite) TearDownTest() {
	s.db.Close()
}

func (s *SQLiteSuite) newUser(email string) *models.User {
	u, err := s.users.Create(s.ctx, &models.User{Email: email, Name: "Test", PasswordHash: "digest"})
	s.Require().NoError(err)
	return u
}

func (s *SQLiteSuite) addExpense(userID int64, amount, category string, d models.Date) *models.Expense {
	e, err := s.expenses.Create(s.ctx, &models.Expense{
		UserID:   userID,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     d,
	})
	s.Require().NoError(err)
	return e
}

func (s *SQLiteSuite) TestUserLifecycle() {
	u := s.newUser("alice@example.com")
	s.NotZero(u.ID)
	s.False(u.CreatedAt.IsZero())

	_, err := s.users.Create(s.ctx, &models.User{Email: "alice@example.com", Name: "Again", PasswordHash: "x"})
	s.ErrorIs(err, ErrDuplicateEmail)

	got, err := s.users.GetByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(u.ID, got.ID)

	_, err = s.users.GetByID(s.ctx, 999)
	s.ErrorIs(err, ErrNotFound)
}

func (s *SQLiteSuite) TestExpenseRoundTripKeepsExactAmount() {
	u := s.newUser("bob@example.com")
	e := s.addExpense(u.ID, "0.10", "Food", models.NewDate(2025, time.April, 10))

	got, err := s.expenses.GetByID(s.ctx, e.ID)
	s.Require().NoError(err)
	s.True(got.Amount.Equal(decimal.RequireFromString("0.1")), "amount %s", got.Amount)
	s.Equal(models.NewDate(2025, time.April, 10), got.Date)
	s.Equal(u.ID, got.UserID)
}

func (s *SQLiteSuite) TestUpdateAndDeleteAreOwnerScoped() {
	owner := s.newUser("owner@example.com")
	other := s.newUser("other@example.com")
	e := s.addExpense(owner.ID, "10", "Food", models.NewDate(2025, time.April, 1))

	_, err := s.expenses.Update(s.ctx, &models.Expense{
		ID: e.ID, UserID: other.ID, Amount: decimal.NewFromInt(99), Category: "Hack", Date: e.Date,
	})
	s.ErrorIs(err, ErrNotFound)
	s.ErrorIs(s.expenses.Delete(s.ctx, e.ID, other.ID), ErrNotFound)

	unchanged, err := s.expenses.GetByID(s.ctx, e.ID)
	s.Require().NoError(err)
	s.Equal("Food", unchanged.Category)

	updated, err := s.expenses.Update(s.ctx, &models.Expense{
		ID: e.ID, UserID: owner.ID, Amount: decimal.NewFromInt(12), Category: "Travel", Date: e.Date,
	})
	s.Require().NoError(err)
	s.Equal("Travel", updated.Category)
	s.Equal(owner.ID, updated.UserID)

	s.NoError(s.expenses.Delete(s.ctx, e.ID, owner.ID))
	s.ErrorIs(s.expenses.Delete(s.ctx, e.ID, owner.ID), ErrNotFound)
}

func (s *SQLiteSuite) TestListByOwnerSortsAndPages() {
	u := s.newUser("carol@example.com")
	s.newUser("dave@example.com")
	s.addExpense(u.ID, "9.50", "B", models.NewDate(2025, time.April, 3))
	s.addExpense(u.ID, "100", "A", models.NewDate(2025, time.April, 1))
	s.addExpense(u.ID, "20", "C", models.NewDate(2025, time.April, 2))

	page, err := s.expenses.ListByOwner(s.ctx, u.ID, models.PageParams{Size: 2, Sort: models.SortByAmount})
	s.Require().NoError(err)
	s.Equal(3, page.TotalItems)
	s.Equal(2, page.TotalPages)
	s.Require().Len(page.Items, 2)
	// numeric, not lexicographic, ordering
	s.Equal("9.5", page.Items[0].Amount.String())
	s.Equal("20", page.Items[1].Amount.String())

	page, err = s.expenses.ListByOwner(s.ctx, u.ID, models.PageParams{Page: 0, Size: 10, Sort: models.SortByDate, Desc: true})
	s.Require().NoError(err)
	s.Require().Len(page.Items, 3)
	s.Equal("B", page.Items[0].Category)
}

func (s *SQLiteSuite) TestListByOwnerInRangeIsInclusive() {
	u := s.newUser("erin@example.com")
	other := s.newUser("frank@example.com")
	s.addExpense(u.ID, "1", "Food", models.NewDate(2025, time.March, 31))
	s.addExpense(u.ID, "2", "Food", models.NewDate(2025, time.April, 1))
	s.addExpense(u.ID, "3", "Food", models.NewDate(2025, time.April, 30))
	s.addExpense(u.ID, "4", "Food", models.NewDate(2025, time.May, 1))
	s.addExpense(other.ID, "5", "Food", models.NewDate(2025, time.April, 15))

	items, err := s.expenses.ListByOwnerInRange(s.ctx, u.ID,
		models.NewDate(2025, time.April, 1), models.NewDate(2025, time.April, 30))
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal("2", items[0].Amount.String())
	s.Equal("3", items[1].Amount.String())
}

func (s *SQLiteSuite) TestAuditLog() {
	u := s.newUser("gina@example.com")
	s.Require().NoError(s.audit.Log(s.ctx, u.ID, models.AuditCreate, models.ResourceExpense, 1, "amount=10"))
	s.Require().NoError(s.audit.Log(s.ctx, u.ID, models.AuditDelete, models.ResourceExpense, 1, ""))

	entries, err := s.audit.ListByUser(s.ctx, u.ID, 10, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(models.AuditDelete, entries[0].Action)

	entries, err = s.audit.ListByUser(s.ctx, u.ID+1, 10, 0)
	s.Require().NoError(err)
	s.Empty(entries)
}

func TestRunSQLiteIsIdempotent(t *testing.T) {
	conn, err := db.ConnectSQLite(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, db.RunSQLite(conn))
	require.NoError(t, db.RunSQLite(conn))
}
