package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zanvidmar/oprema/internal/model"
)

// AssetParams are the writable fields of an asset.
type AssetParams struct {
	AssetNo      string
	Name         string
	TypeID       *int64
	Model        string
	VendorID     *int64
	PurchaseDate *time.Time
	Location     string
	Price        *float64
}

const assetColumns = `a.id, a.asset_no, a.name, a.type_id, a.model, a.vendor_id,
	        a.purchase_date, a.status, a.location, a.price, a.photo_mime,
	        a.created_by, a.created_at,
	        COALESCE(t.name, ''), COALESCE(v.name, '')`

const assetJoins = ` FROM assets a
	 LEFT JOIN asset_types t ON t.id = a.type_id
	 LEFT JOIN vendors v ON v.id = a.vendor_id`

func scanAssetRows(rows *sql.Rows) ([]model.Asset, error) {
	var assets []model.Asset
	for rows.Next() {
		var a model.Asset
		var am, location, photoMime sql.NullString
		if err := rows.Scan(&a.ID, &a.AssetNo, &a.Name, &a.TypeID, &am, &a.VendorID,
			&a.PurchaseDate, &a.Status, &location, &a.Price, &photoMime,
			&a.CreatedBy, &a.CreatedAt, &a.TypeName, &a.VendorName); err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}
		a.Model = am.String
		a.Location = location.String
		a.PhotoMime = photoMime.String
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// CreateAsset creates a new asset in draft status.
func CreateAsset(ctx context.Context, db *sql.DB, p AssetParams, createdBy *int64) (*model.Asset, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO assets (asset_no, name, type_id, model, vendor_id, purchase_date, location, price, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.AssetNo, p.Name, p.TypeID, nullIfEmpty(p.Model), p.VendorID, p.PurchaseDate,
		nullIfEmpty(p.Location), p.Price, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("creating asset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting asset id: %w", err)
	}

	return GetAsset(ctx, db, id)
}

// GetAsset returns an asset by ID with type and vendor names joined in.
func GetAsset(ctx context.Context, db *sql.DB, id int64) (*model.Asset, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+assetColumns+assetJoins+` WHERE a.id = ?`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("getting asset: %w", err)
	}
	defer rows.Close()

	assets, err := scanAssetRows(rows)
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, nil
	}
	return &assets[0], nil
}

// ListAssets returns all assets, optionally filtered by status.
func ListAssets(ctx context.Context, db *sql.DB, status string) ([]model.Asset, error) {
	query := `SELECT ` + assetColumns + assetJoins
	var args []any
	if status != "" {
		query += ` WHERE a.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY a.asset_no`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	defer rows.Close()

	return scanAssetRows(rows)
}

// UpdateAsset updates an asset's master data.
func UpdateAsset(ctx context.Context, db *sql.DB, id int64, p AssetParams) error {
	_, err := db.ExecContext(ctx,
		`UPDATE assets SET asset_no = ?, name = ?, type_id = ?, model = ?, vendor_id = ?,
		        purchase_date = ?, location = ?, price = ?
		 WHERE id = ?`,
		p.AssetNo, p.Name, p.TypeID, nullIfEmpty(p.Model), p.VendorID, p.PurchaseDate,
		nullIfEmpty(p.Location), p.Price, id,
	)
	if err != nil {
		return fmt.Errorf("updating asset: %w", err)
	}
	return nil
}

// RetireAsset marks an asset as retired. Fails with Conflict while any of its
// units is still checked out.
func RetireAsset(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var out int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM inventory_units WHERE asset_id = ? AND status = ?`,
		id, model.UnitStatusCheckedOut,
	).Scan(&out)
	if err != nil {
		return fmt.Errorf("checking units: %w", err)
	}
	if out > 0 {
		return model.Conflictf("asset %d has %d units checked out", id, out)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE assets SET status = ? WHERE id = ?`, model.AssetStatusRetired, id,
	); err != nil {
		return fmt.Errorf("retiring asset: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing retire: %w", err)
	}
	return nil
}

// SetAssetPhoto sets an asset's photo data.
func SetAssetPhoto(ctx context.Context, db *sql.DB, id int64, photo []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE assets SET photo = ?, photo_mime = ? WHERE id = ?`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting asset photo: %w", err)
	}
	return nil
}

// GetAssetPhoto returns an asset's photo data and MIME type, or nil if unset.
func GetAssetPhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM assets WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting asset photo: %w", err)
	}
	return photo, mime.String, nil
}
