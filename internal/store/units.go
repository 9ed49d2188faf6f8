package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zanvidmar/oprema/internal/model"
)

// unitColumns are the columns selected for a full unit row, joined with the
// owning asset and (when checked out) the current holder.
const unitColumns = `u.id, u.asset_id, u.serial_no, u.status, u.location,
	        u.holder_id, u.checked_out_at, u.expected_return_at,
	        u.last_reminder_at, u.reminder_count, u.created_at, u.updated_at,
	        a.name, a.asset_no,
	        COALESCE(h.full_name, h.username, ''), COALESCE(h.email, '')`

const unitJoins = ` FROM inventory_units u
	 JOIN assets a ON a.id = u.asset_id
	 LEFT JOIN users h ON h.id = u.holder_id`

func scanUnitRows(rows *sql.Rows) ([]model.Unit, error) {
	var units []model.Unit
	for rows.Next() {
		var u model.Unit
		var location sql.NullString
		if err := rows.Scan(&u.ID, &u.AssetID, &u.SerialNo, &u.Status, &location,
			&u.HolderID, &u.CheckedOutAt, &u.ExpectedReturnAt,
			&u.LastReminderAt, &u.ReminderCount, &u.CreatedAt, &u.UpdatedAt,
			&u.AssetName, &u.AssetNo, &u.HolderName, &u.HolderEmail); err != nil {
			return nil, fmt.Errorf("scanning unit: %w", err)
		}
		u.Location = location.String
		units = append(units, u)
	}
	return units, rows.Err()
}

// GetUnit returns a unit by ID with asset and holder details joined in.
func GetUnit(ctx context.Context, db *sql.DB, id int64) (*model.Unit, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+unitColumns+unitJoins+` WHERE u.id = ?`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("getting unit: %w", err)
	}
	defer rows.Close()

	units, err := scanUnitRows(rows)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, nil
	}
	return &units[0], nil
}

// ListUnits returns all units, optionally filtered by status or asset.
func ListUnits(ctx context.Context, db *sql.DB, status string, assetID int64) ([]model.Unit, error) {
	query := `SELECT ` + unitColumns + unitJoins + ` WHERE 1=1`
	var args []any

	if status != "" {
		query += ` AND u.status = ?`
		args = append(args, status)
	}
	if assetID > 0 {
		query += ` AND u.asset_id = ?`
		args = append(args, assetID)
	}
	query += ` ORDER BY u.updated_at DESC, u.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing units: %w", err)
	}
	defer rows.Close()

	return scanUnitRows(rows)
}

// ListDueUnits returns checked-out units whose expected return is at or before
// the threshold. This captures both soon-due and already-overdue units.
func ListDueUnits(ctx context.Context, db *sql.DB, threshold time.Time) ([]model.Unit, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+unitColumns+unitJoins+`
		 WHERE u.status = ? AND u.expected_return_at IS NOT NULL AND u.expected_return_at <= ?
		 ORDER BY u.expected_return_at`,
		model.UnitStatusCheckedOut, threshold.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing due units: %w", err)
	}
	defer rows.Close()

	return scanUnitRows(rows)
}

// StockInUnit registers a new physical unit of an asset, in stock. The unit
// creation, the asset status bump and the audit entry commit together.
func StockInUnit(ctx context.Context, db *sql.DB, assetID int64, serialNo, location string, actorID *int64) (*model.Unit, error) {
	if serialNo == "" {
		return nil, model.BadRequestf("serial number required")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM assets WHERE id = ?`, assetID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, model.NotFoundf("asset %d", assetID)
	}
	if err != nil {
		return nil, fmt.Errorf("checking asset: %w", err)
	}

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO inventory_units (asset_id, serial_no, status, location, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		assetID, serialNo, model.UnitStatusInStock, nullIfEmpty(location), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating unit: %w", err)
	}

	unitID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting unit id: %w", err)
	}

	// An asset with stocked units is no longer a draft.
	if _, err := tx.ExecContext(ctx,
		`UPDATE assets SET status = ? WHERE id = ? AND status = ?`,
		model.AssetStatusInStock, assetID, model.AssetStatusDraft,
	); err != nil {
		return nil, fmt.Errorf("updating asset status: %w", err)
	}

	if err := RecordAudit(ctx, tx, actorID, model.AuditActionStockIn, "Unit", unitID, serialNo); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing stock-in: %w", err)
	}

	return GetUnit(ctx, db, unitID)
}

// CheckoutUnit grants custody of an in-stock unit to a user. When no expected
// return date is given, it defaults to now + defaultDurationDays. Reminder
// bookkeeping is reset so a fresh loan starts with a clean slate.
func CheckoutUnit(ctx context.Context, db *sql.DB, unitID, userID int64, remark string, expectedReturnAt *time.Time, defaultDurationDays int) (*model.Unit, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM inventory_units WHERE id = ?`, unitID,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return nil, model.NotFoundf("unit %d", unitID)
	}
	if err != nil {
		return nil, fmt.Errorf("checking unit: %w", err)
	}
	if status != model.UnitStatusInStock {
		return nil, model.Conflictf("unit %d not available for checkout", unitID)
	}

	var deletedAt sql.NullTime
	err = tx.QueryRowContext(ctx,
		`SELECT deleted_at FROM users WHERE id = ?`, userID,
	).Scan(&deletedAt)
	if err == sql.ErrNoRows || (err == nil && deletedAt.Valid) {
		return nil, model.NotFoundf("user %d", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("checking user: %w", err)
	}

	now := time.Now().UTC()
	due := now.AddDate(0, 0, defaultDurationDays)
	if expectedReturnAt != nil {
		due = expectedReturnAt.UTC()
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE inventory_units
		 SET status = ?, holder_id = ?, checked_out_at = ?, expected_return_at = ?,
		     last_reminder_at = NULL, reminder_count = 0, updated_at = ?
		 WHERE id = ?`,
		model.UnitStatusCheckedOut, userID, now, due, now, unitID,
	)
	if err != nil {
		return nil, fmt.Errorf("checking out unit: %w", err)
	}

	if err := appendCheckoutRecord(ctx, tx, unitID, userID, model.RecordTypeCheckout, remark, now); err != nil {
		return nil, err
	}
	if err := RecordAudit(ctx, tx, &userID, model.AuditActionCheckout, "Unit", unitID, remark); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing checkout: %w", err)
	}

	return GetUnit(ctx, db, unitID)
}

// ReturnUnit takes custody of a checked-out unit back. Holder, expected return
// and reminder bookkeeping are all cleared.
func ReturnUnit(ctx context.Context, db *sql.DB, unitID, userID int64, remark string) (*model.Unit, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM inventory_units WHERE id = ?`, unitID,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return nil, model.NotFoundf("unit %d", unitID)
	}
	if err != nil {
		return nil, fmt.Errorf("checking unit: %w", err)
	}
	if status != model.UnitStatusCheckedOut {
		return nil, model.Conflictf("unit %d not currently checked out", unitID)
	}

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, model.NotFoundf("user %d", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("checking user: %w", err)
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE inventory_units
		 SET status = ?, holder_id = NULL, checked_out_at = NULL, expected_return_at = NULL,
		     last_reminder_at = NULL, reminder_count = 0, updated_at = ?
		 WHERE id = ?`,
		model.UnitStatusInStock, now, unitID,
	)
	if err != nil {
		return nil, fmt.Errorf("returning unit: %w", err)
	}

	if err := appendCheckoutRecord(ctx, tx, unitID, userID, model.RecordTypeReturn, remark, now); err != nil {
		return nil, err
	}
	if err := RecordAudit(ctx, tx, &userID, model.AuditActionReturn, "Unit", unitID, remark); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing return: %w", err)
	}

	return GetUnit(ctx, db, unitID)
}

func appendCheckoutRecord(ctx context.Context, q DBTX, unitID, userID int64, recordType, remark string, at time.Time) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO checkout_records (unit_id, user_id, type, remark, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		unitID, userID, recordType, nullIfEmpty(remark), at,
	)
	if err != nil {
		return fmt.Errorf("appending checkout record: %w", err)
	}
	return nil
}

// RemindedUnit identifies one successfully notified unit and the holder the
// reminder was addressed to.
type RemindedUnit struct {
	UnitID   int64
	HolderID int64
}

// MarkUnitsReminded records delivered reminders on a batch of units at cycle
// end. Each update only applies while the unit is still checked out to the
// same holder; a lifecycle transition that raced the reminder cycle wins and
// the stale bookkeeping write is discarded. The batch is deliberately not one
// transaction: a failure partway leaves earlier units updated, which is safe
// because the next cycle re-evaluates eligibility. Returns the number of
// units actually updated.
func MarkUnitsReminded(ctx context.Context, db *sql.DB, reminded []RemindedUnit, at time.Time) (int, error) {
	applied := 0
	for _, r := range reminded {
		result, err := db.ExecContext(ctx,
			`UPDATE inventory_units
			 SET last_reminder_at = ?, reminder_count = reminder_count + 1, updated_at = ?
			 WHERE id = ? AND status = ? AND holder_id = ?`,
			at.UTC(), at.UTC(), r.UnitID, model.UnitStatusCheckedOut, r.HolderID,
		)
		if err != nil {
			return applied, fmt.Errorf("marking unit %d reminded: %w", r.UnitID, err)
		}
		if n, err := result.RowsAffected(); err == nil && n > 0 {
			applied++
		}
	}
	return applied, nil
}

// ListUnitRecords returns the checkout/return history of a unit, newest first.
func ListUnitRecords(ctx context.Context, db *sql.DB, unitID int64) ([]model.CheckoutRecord, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT r.id, r.unit_id, r.user_id, r.type, r.remark, r.created_at,
		        u.username, n.serial_no
		 FROM checkout_records r
		 JOIN users u ON u.id = r.user_id
		 JOIN inventory_units n ON n.id = r.unit_id
		 WHERE r.unit_id = ?
		 ORDER BY r.created_at DESC, r.id DESC`, unitID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing unit records: %w", err)
	}
	defer rows.Close()

	var records []model.CheckoutRecord
	for rows.Next() {
		var r model.CheckoutRecord
		var remark sql.NullString
		if err := rows.Scan(&r.ID, &r.UnitID, &r.UserID, &r.Type, &remark, &r.CreatedAt, &r.Username, &r.SerialNo); err != nil {
			return nil, fmt.Errorf("scanning checkout record: %w", err)
		}
		r.Remark = remark.String
		records = append(records, r)
	}
	return records, rows.Err()
}
