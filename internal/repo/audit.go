package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/crucial707/expense-tracker/internal/models"
)

// AuditRepo persists audit log entries.
type AuditRepo struct {
	db      *sql.DB
	dialect Dialect
}

// NewAuditRepo returns a new AuditRepo.
func NewAuditRepo(db *sql.DB, dialect Dialect) *AuditRepo {
	return &AuditRepo{db: db, dialect: dialect}
}

// Log records an audit entry. action is create|update|delete.
func (r *AuditRepo) Log(ctx context.Context, userID int64, action, resourceType string, resourceID int64, details string) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		`INSERT INTO audit_log (user_id, action, resource_type, resource_id, details, created_at) VALUES ($1, $2, $3, $4, $5, $6)`),
		userID, action, resourceType, resourceID, details, time.Now().UTC(),
	)
	return err
}

// ListByUser returns the user's own audit entries, newest first.
func (r *AuditRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(
		`SELECT id, user_id, action, resource_type, resource_id, COALESCE(details,''), created_at FROM audit_log WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`),
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.ResourceType, &e.ResourceID, &e.Details, timeColumn{&e.CreatedAt}); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
