// Package events publishes ledger changes to interested consumers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crucial707/expense-tracker/internal/models"
)

// Event types.
const (
	ExpenseCreated = "expense.created"
	ExpenseUpdated = "expense.updated"
	ExpenseDeleted = "expense.deleted"
)

// Event describes one committed ledger mutation.
type Event struct {
	Type      string          `json:"type"`
	ExpenseID int64           `json:"expense_id"`
	UserID    int64           `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Date      models.Date     `json:"date"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewExpenseEvent builds an event of type typ for e.
func NewExpenseEvent(typ string, e *models.Expense) Event {
	return Event{
		Type:      typ,
		ExpenseID: e.ID,
		UserID:    e.UserID,
		Amount:    e.Amount,
		Category:  e.Category,
		Date:      e.Date,
		Timestamp: time.Now().UTC(),
	}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func FromJSON(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
