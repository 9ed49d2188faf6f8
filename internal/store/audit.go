package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zanvidmar/oprema/internal/model"
)

// DBTX is the subset of database operations shared by *sql.DB and *sql.Tx.
// Audit writes accept it so lifecycle transitions can record their audit entry
// inside the same transaction as the unit mutation.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// RecordAudit appends an audit entry. The sink is write-only from the caller's
// perspective; failures bubble up so a transaction can decide to abort.
func RecordAudit(ctx context.Context, q DBTX, userID *int64, action, entity string, entityID int64, detail string) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO audit_log (user_id, action, entity, entity_id, detail) VALUES (?, ?, ?, ?, ?)`,
		userID, action, entity, entityID, nullIfEmpty(detail),
	)
	if err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}
	return nil
}

// ListAuditLog returns the most recent audit entries, newest first.
func ListAuditLog(ctx context.Context, db *sql.DB, limit int) ([]model.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.QueryContext(ctx,
		`SELECT a.id, a.user_id, a.action, a.entity, a.entity_id, a.detail, a.created_at,
		        COALESCE(u.username, '')
		 FROM audit_log a
		 LEFT JOIN users u ON u.id = a.user_id
		 ORDER BY a.id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing audit log: %w", err)
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		var detail sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Entity, &e.EntityID, &detail, &e.CreatedAt, &e.Username); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.Detail = detail.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
