package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: the reminder job scans by holder as part of its stale-update
	// guard; cover that lookup for large unit tables.
	`CREATE INDEX IF NOT EXISTS idx_units_holder ON inventory_units(holder_id)
	     WHERE holder_id IS NOT NULL`,
}

// Migrate creates the schema and applies the migrations on top of it.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
