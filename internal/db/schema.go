package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    full_name     TEXT,
    email         TEXT,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'manager', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS asset_types (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE TABLE IF NOT EXISTS vendors (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    contact    TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE TABLE IF NOT EXISTS departments (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE TABLE IF NOT EXISTS assets (
    id            INTEGER PRIMARY KEY,
    asset_no      TEXT NOT NULL UNIQUE,
    name          TEXT NOT NULL,
    type_id       INTEGER REFERENCES asset_types(id),
    model         TEXT,
    vendor_id     INTEGER REFERENCES vendors(id),
    purchase_date DATETIME,
    status        TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'in_stock', 'retired')),
    location      TEXT,
    price         REAL,
    photo         BLOB,
    photo_mime    TEXT,
    created_by    INTEGER REFERENCES users(id),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS inventory_units (
    id                 INTEGER PRIMARY KEY,
    asset_id           INTEGER NOT NULL REFERENCES assets(id),
    serial_no          TEXT NOT NULL UNIQUE,
    status             TEXT NOT NULL DEFAULT 'IN_STOCK' CHECK (status IN ('IN_STOCK', 'CHECKED_OUT')),
    location           TEXT,
    holder_id          INTEGER REFERENCES users(id),
    checked_out_at     DATETIME,
    expected_return_at DATETIME,
    last_reminder_at   DATETIME,
    reminder_count     INTEGER NOT NULL DEFAULT 0 CHECK (reminder_count >= 0),
    created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_units_status_due
    ON inventory_units(status, expected_return_at);

CREATE TABLE IF NOT EXISTS checkout_records (
    id         INTEGER PRIMARY KEY,
    unit_id    INTEGER NOT NULL REFERENCES inventory_units(id),
    user_id    INTEGER NOT NULL REFERENCES users(id),
    type       TEXT NOT NULL CHECK (type IN ('CHECKOUT', 'RETURN')),
    remark     TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_checkout_records_unit
    ON checkout_records(unit_id, created_at);

CREATE TABLE IF NOT EXISTS reminder_settings (
    id                 INTEGER PRIMARY KEY CHECK (id = 1),
    sender_email       TEXT,
    smtp_host          TEXT,
    smtp_port          INTEGER,
    smtp_username      TEXT,
    smtp_password      TEXT,
    smtp_use_tls       INTEGER NOT NULL DEFAULT 0,
    reminder_cron      TEXT,
    reminder_lead_days INTEGER,
    updated_by         INTEGER REFERENCES users(id),
    updated_at         DATETIME
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_log (
    id         INTEGER PRIMARY KEY,
    user_id    INTEGER REFERENCES users(id),
    action     TEXT NOT NULL,
    entity     TEXT NOT NULL,
    entity_id  INTEGER,
    detail     TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
