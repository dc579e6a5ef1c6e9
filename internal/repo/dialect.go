package repo

import (
	"regexp"

	"github.com/crucial707/expense-tracker/internal/models"
)

// Dialect adapts the PostgreSQL-flavoured queries in this package to the
// connected database.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

var placeholder = regexp.MustCompile(`\$(\d+)`)

// Rebind rewrites $n placeholders to SQLite's numbered ?n form.
func (d Dialect) Rebind(query string) string {
	if d == SQLite {
		return placeholder.ReplaceAllString(query, "?${1}")
	}
	return query
}

// orderColumn maps a sort key to a trusted SQL expression. Amounts are kept
// as exact text in SQLite, so they are cast for numeric ordering.
func (d Dialect) orderColumn(sort string) string {
	switch sort {
	case models.SortByAmount:
		if d == SQLite {
			return "CAST(amount AS REAL)"
		}
		return "amount"
	case models.SortByCategory:
		return "category"
	case models.SortByID:
		return "id"
	default:
		return "spent_on"
	}
}

func (d Dialect) String() string {
	if d == SQLite {
		return "sqlite"
	}
	return "postgres"
}
