package db

import (
	"database/sql"
	"testing"
)

// NewTestDB opens a fresh in-memory SQLite database with all migrations
// applied. The connection is capped at one, so the memory database is
// shared by every query the test issues, and is closed on test cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := Migrate(database); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	return database
}
