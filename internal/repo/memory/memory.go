// Package memory is an in-process store for development and tests. It keeps
// the same contracts as the SQL repositories, including owner-scoped writes
// and unique emails.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/crucial707/expense-tracker/internal/models"
	"github.com/crucial707/expense-tracker/internal/repo"
)

// Users is an in-memory credential store.
type Users struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]models.User
	byEmail map[string]int64
}

func NewUsers() *Users {
	return &Users{byID: map[int64]models.User{}, byEmail: map[string]int64{}}
}

func (s *Users) Create(_ context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[u.Email]; ok {
		return nil, repo.ErrDuplicateEmail
	}
	s.nextID++
	stored := *u
	stored.ID = s.nextID
	stored.CreatedAt = time.Now().UTC()
	s.byID[stored.ID] = stored
	s.byEmail[stored.Email] = stored.ID
	return &stored, nil
}

func (s *Users) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (s *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	u := s.byID[id]
	return &u, nil
}

// Expenses is an in-memory expense store.
type Expenses struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]models.Expense
}

func NewExpenses() *Expenses {
	return &Expenses{items: map[int64]models.Expense{}}
}

func (s *Expenses) Create(_ context.Context, e *models.Expense) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	stored := *e
	stored.ID = s.nextID
	stored.CreatedAt = time.Now().UTC()
	s.items[stored.ID] = stored
	return &stored, nil
}

func (s *Expenses) GetByID(_ context.Context, id int64) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &e, nil
}

// Update only touches a row with matching id and owner, like the SQL form.
func (s *Expenses) Update(_ context.Context, e *models.Expense) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.items[e.ID]
	if !ok || cur.UserID != e.UserID {
		return nil, repo.ErrNotFound
	}
	cur.Amount = e.Amount
	cur.Description = e.Description
	cur.Category = e.Category
	cur.Date = e.Date
	s.items[cur.ID] = cur
	return &cur, nil
}

func (s *Expenses) Delete(_ context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.items[id]
	if !ok || cur.UserID != userID {
		return repo.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *Expenses) ListByOwner(_ context.Context, userID int64, p models.PageParams) (*models.ExpensePage, error) {
	p = p.Normalize()
	owned := s.owned(userID, func(models.Expense) bool { return true })

	slices.SortFunc(owned, func(a, b models.Expense) int {
		c := compareBy(p.Sort, a, b)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if p.Desc {
			return -c
		}
		return c
	})

	total := len(owned)
	lo := min(p.Offset(), total)
	hi := min(lo+p.Size, total)
	return models.NewExpensePage(owned[lo:hi], p, total), nil
}

func (s *Expenses) ListByOwnerInRange(_ context.Context, userID int64, start, end models.Date) ([]models.Expense, error) {
	out := s.owned(userID, func(e models.Expense) bool { return e.Date.InRange(start, end) })
	slices.SortFunc(out, func(a, b models.Expense) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *Expenses) owned(userID int64, keep func(models.Expense) bool) []models.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Expense
	for _, e := range s.items {
		if e.UserID == userID && keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func compareBy(sort string, a, b models.Expense) int {
	switch sort {
	case models.SortByAmount:
		return a.Amount.Cmp(b.Amount)
	case models.SortByCategory:
		return cmp.Compare(a.Category, b.Category)
	case models.SortByID:
		return cmp.Compare(a.ID, b.ID)
	default:
		return a.Date.Compare(b.Date)
	}
}

// Audit keeps audit entries in insertion order.
type Audit struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func NewAudit() *Audit {
	return &Audit{}
}

func (a *Audit) Log(_ context.Context, userID int64, action, resourceType string, resourceID int64, details string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, models.AuditEntry{
		ID:           int64(len(a.entries) + 1),
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		CreatedAt:    time.Now().UTC(),
	})
	return nil
}

func (a *Audit) ListByUser(_ context.Context, userID int64, limit, offset int) ([]models.AuditEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []models.AuditEntry{}
	for i := len(a.entries) - 1; i >= 0; i-- {
		if a.entries[i].UserID == userID {
			out = append(out, a.entries[i])
		}
	}
	lo := min(offset, len(out))
	hi := min(lo+limit, len(out))
	return out[lo:hi], nil
}
