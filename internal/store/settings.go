package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/zanvidmar/oprema/internal/model"
)

// GetJWTSecret retrieves the JWT secret from the database.
// If no secret exists, it generates one, stores it, and returns it.
// Uses INSERT OR IGNORE + re-SELECT to avoid TOCTOU race on concurrent startup.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	// Try to generate and insert first (safe against races).
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES ('jwt_secret', ?)`,
		candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing jwt_secret: %w", err)
	}

	// Always read back (either our insert or the existing value).
	var secret string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'jwt_secret'`,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying jwt_secret: %w", err)
	}

	return secret, nil
}

// GetReminderSettings returns the stored reminder settings, or nil when no
// operator has saved any yet (callers fall back to process defaults).
func GetReminderSettings(ctx context.Context, db *sql.DB) (*model.ReminderSettings, error) {
	s := &model.ReminderSettings{}
	var sender, host, username, password, cron, updatedByName sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT r.sender_email, r.smtp_host, r.smtp_port, r.smtp_username, r.smtp_password,
		        r.smtp_use_tls, r.reminder_cron, r.reminder_lead_days, r.updated_by, r.updated_at,
		        COALESCE(u.full_name, u.username, '')
		 FROM reminder_settings r
		 LEFT JOIN users u ON u.id = r.updated_by
		 WHERE r.id = 1`,
	).Scan(&sender, &host, &s.SMTPPort, &username, &password,
		&s.SMTPUseTLS, &cron, &s.ReminderLeadDays, &s.UpdatedBy, &s.UpdatedAt,
		&updatedByName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting reminder settings: %w", err)
	}
	s.SenderEmail = sender.String
	s.SMTPHost = host.String
	s.SMTPUsername = username.String
	s.SMTPPassword = password.String
	s.ReminderCron = cron.String
	s.UpdatedByName = updatedByName.String
	return s, nil
}

// ReminderSettingsParams are the operator-writable reminder settings fields.
// An empty SMTPPassword keeps the previously stored one (write-only field).
type ReminderSettingsParams struct {
	SenderEmail      string
	SMTPHost         string
	SMTPPort         *int
	SMTPUsername     string
	SMTPPassword     string
	SMTPUseTLS       bool
	ReminderCron     string
	ReminderLeadDays *int
}

// UpsertReminderSettings saves the singleton reminder settings row and records
// who changed it. Returns the stored state.
func UpsertReminderSettings(ctx context.Context, db *sql.DB, p ReminderSettingsParams, operatorID *int64) (*model.ReminderSettings, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO reminder_settings
		     (id, sender_email, smtp_host, smtp_port, smtp_username, smtp_password,
		      smtp_use_tls, reminder_cron, reminder_lead_days, updated_by, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     sender_email = excluded.sender_email,
		     smtp_host = excluded.smtp_host,
		     smtp_port = excluded.smtp_port,
		     smtp_username = excluded.smtp_username,
		     smtp_password = COALESCE(excluded.smtp_password, smtp_password),
		     smtp_use_tls = excluded.smtp_use_tls,
		     reminder_cron = excluded.reminder_cron,
		     reminder_lead_days = excluded.reminder_lead_days,
		     updated_by = excluded.updated_by,
		     updated_at = excluded.updated_at`,
		nullIfEmpty(p.SenderEmail), nullIfEmpty(p.SMTPHost), p.SMTPPort,
		nullIfEmpty(p.SMTPUsername), nullIfEmpty(p.SMTPPassword), p.SMTPUseTLS,
		nullIfEmpty(p.ReminderCron), p.ReminderLeadDays, operatorID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("saving reminder settings: %w", err)
	}

	if err := RecordAudit(ctx, tx, operatorID, model.AuditActionUpdateSettings, "ReminderSettings", 1, ""); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing reminder settings: %w", err)
	}

	return GetReminderSettings(ctx, db)
}
