package models

import (
	"math"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Sort keys accepted by expense listings.
const (
	SortByDate     = "date"
	SortByAmount   = "amount"
	SortByCategory = "category"
	SortByID       = "id"
)

// PageParams selects one zero-based page of a listing.
type PageParams struct {
	Page int
	Size int
	Sort string
	Desc bool
}

// Normalize clamps the params to valid values. Unknown sort keys fall back to date.
func (p PageParams) Normalize() PageParams {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	// Offset must stay representable.
	if p.Page > math.MaxInt/p.Size {
		p.Page = math.MaxInt / p.Size
	}
	switch p.Sort {
	case SortByDate, SortByAmount, SortByCategory, SortByID:
	default:
		p.Sort = SortByDate
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p PageParams) Offset() int {
	return p.Page * p.Size
}

// ParseSort reads a "field,dir" sort expression such as "amount,asc".
// Direction defaults to descending.
func ParseSort(s string) (field string, desc bool) {
	field, dir, _ := strings.Cut(s, ",")
	field = strings.ToLower(strings.TrimSpace(field))
	return field, !strings.EqualFold(strings.TrimSpace(dir), "asc")
}

// ExpensePage is one page of a user's expenses.
type ExpensePage struct {
	Items      []Expense `json:"items"`
	Page       int       `json:"page"`
	Size       int       `json:"size"`
	TotalItems int       `json:"total_items"`
	TotalPages int       `json:"total_pages"`
}

// NewExpensePage fills in the page bookkeeping for items.
func NewExpensePage(items []Expense, p PageParams, total int) *ExpensePage {
	if items == nil {
		items = []Expense{}
	}
	pages := 0
	if p.Size > 0 {
		pages = (total + p.Size - 1) / p.Size
	}
	return &ExpensePage{
		Items:      items,
		Page:       p.Page,
		Size:       p.Size,
		TotalItems: total,
		TotalPages: pages,
	}
}
