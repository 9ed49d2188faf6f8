package model

import "time"

// AuditEntry is an append-only record of a state-changing action.
type AuditEntry struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  *int64    `json:"entity_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields (not always populated).
	Username string `json:"username,omitempty"`
}

// Audit actions recorded by the inventory lifecycle.
const (
	AuditActionStockIn        = "STOCK_IN"
	AuditActionCheckout       = "CHECKOUT"
	AuditActionReturn         = "RETURN"
	AuditActionUpdateSettings = "UPDATE_REMINDER_SETTINGS"
)
