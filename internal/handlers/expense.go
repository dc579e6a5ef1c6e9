package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/crucial707/expense-tracker/internal/models"
	"github.com/crucial707/expense-tracker/internal/service"
)

type ExpenseHandler struct {
	Ledger     *service.Ledger
	Aggregator *service.Aggregator
	Errors     Errors
}

// expenseRequest is the body of create and update. An omitted date means today.
type expenseRequest struct {
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Description string           `json:"description" validate:"max=500"`
	Category    string           `json:"category" validate:"required,max=100"`
	Date        models.Date      `json:"date"`
}

func (in expenseRequest) input() models.ExpenseInput {
	return models.ExpenseInput{
		Amount:      *in.Amount,
		Description: in.Description,
		Category:    in.Category,
		Date:        in.Date,
	}
}

// ===== Create =====

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in expenseRequest
	if err := decode(r, &in); err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	e, err := h.Ledger.Create(r.Context(), caller(r).ID, in.input())
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// ===== List =====

// List accepts page (zero-based), size and sort=field,dir, e.g. sort=amount,asc.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 0)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	size, err := intParam(r, "size", models.DefaultPageSize)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	p := models.PageParams{Page: page, Size: size, Desc: true}
	if s := r.URL.Query().Get("sort"); s != "" {
		p.Sort, p.Desc = models.ParseSort(s)
	}

	out, err := h.Ledger.List(r.Context(), caller(r).ID, p)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ===== Get =====

func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	e, err := h.Ledger.Get(r.Context(), caller(r).ID, id)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// ===== Update =====

func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	var in expenseRequest
	if err := decode(r, &in); err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	e, err := h.Ledger.Update(r.Context(), caller(r).ID, id, in.input())
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// ===== Delete =====

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	if err := h.Ledger.Delete(r.Context(), caller(r).ID, id); err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== Aggregates =====

func (h *ExpenseHandler) dateRange(r *http.Request) (start, end models.Date, err error) {
	if start, err = dateParam(r, "startDate"); err != nil {
		return
	}
	end, err = dateParam(r, "endDate")
	return
}

func (h *ExpenseHandler) Total(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.dateRange(r)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	total, err := h.Aggregator.TotalInRange(r.Context(), caller(r).ID, start, end)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"start_date": start,
		"end_date":   end,
		"total":      total,
	})
}

func (h *ExpenseHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.dateRange(r)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	groups, err := h.Aggregator.ByCategoryInRange(r.Context(), caller(r).ID, start, end)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *ExpenseHandler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	today := models.Today()
	year, err := intParam(r, "year", today.Year)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	month, err := intParam(r, "month", int(today.Month))
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	report, err := h.Aggregator.MonthlyReport(r.Context(), caller(r).ID, year, month)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
