package models

import "time"

// Audit actions and resource types.
const (
	AuditCreate = "create"
	AuditUpdate = "update"
	AuditDelete = "delete"

	ResourceExpense = "expense"
)

// AuditEntry represents one audit log row. Entries are only ever shown to the
// user who performed the action.
type AuditEntry struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   int64     `json:"resource_id"`
	Details      string    `json:"details,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
