package handlers

import (
	"context"
	"net/http"

	"github.com/crucial707/expense-tracker/internal/models"
)

// AuditLister reads a user's own audit trail.
type AuditLister interface {
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.AuditEntry, error)
}

// AuditHandler serves audit log endpoints.
type AuditHandler struct {
	Repo   AuditLister
	Errors Errors
}

// ListAudit returns the caller's audit entries, newest first. Query: limit
// (default 50, at most 200), offset (default 0).
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 50)
	if err != nil || limit <= 0 || limit > 200 {
		h.Errors.Write(w, r, paramError("limit must be 1-200"))
		return
	}
	offset, err := intParam(r, "offset", 0)
	if err != nil || offset < 0 {
		h.Errors.Write(w, r, paramError("offset"))
		return
	}

	entries, err := h.Repo.ListByUser(r.Context(), caller(r).ID, limit, offset)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
