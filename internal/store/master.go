package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zanvidmar/oprema/internal/model"
)

// Master data: asset types, vendors and departments share the same shape and
// the same soft-delete lifecycle.

// CreateAssetType creates a new asset type.
func CreateAssetType(ctx context.Context, db *sql.DB, name string) (*model.AssetType, error) {
	result, err := db.ExecContext(ctx, `INSERT INTO asset_types (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("creating asset type: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting asset type id: %w", err)
	}
	return GetAssetType(ctx, db, id)
}

// GetAssetType returns an asset type by ID.
func GetAssetType(ctx context.Context, db *sql.DB, id int64) (*model.AssetType, error) {
	t := &model.AssetType{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, created_at, deleted_at FROM asset_types WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.CreatedAt, &t.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting asset type: %w", err)
	}
	return t, nil
}

// ListAssetTypes returns all non-deleted asset types.
func ListAssetTypes(ctx context.Context, db *sql.DB) ([]model.AssetType, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, created_at, deleted_at FROM asset_types WHERE deleted_at IS NULL ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing asset types: %w", err)
	}
	defer rows.Close()

	var types []model.AssetType
	for rows.Next() {
		var t model.AssetType
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning asset type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// DeleteAssetType soft-deletes an asset type.
func DeleteAssetType(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE asset_types SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting asset type: %w", err)
	}
	return nil
}

// CreateVendor creates a new vendor.
func CreateVendor(ctx context.Context, db *sql.DB, name, contact string) (*model.Vendor, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO vendors (name, contact) VALUES (?, ?)`, name, nullIfEmpty(contact),
	)
	if err != nil {
		return nil, fmt.Errorf("creating vendor: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting vendor id: %w", err)
	}
	return GetVendor(ctx, db, id)
}

// GetVendor returns a vendor by ID.
func GetVendor(ctx context.Context, db *sql.DB, id int64) (*model.Vendor, error) {
	v := &model.Vendor{}
	var contact sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, contact, created_at, deleted_at FROM vendors WHERE id = ?`, id,
	).Scan(&v.ID, &v.Name, &contact, &v.CreatedAt, &v.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting vendor: %w", err)
	}
	v.Contact = contact.String
	return v, nil
}

// ListVendors returns all non-deleted vendors.
func ListVendors(ctx context.Context, db *sql.DB) ([]model.Vendor, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, contact, created_at, deleted_at FROM vendors WHERE deleted_at IS NULL ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing vendors: %w", err)
	}
	defer rows.Close()

	var vendors []model.Vendor
	for rows.Next() {
		var v model.Vendor
		var contact sql.NullString
		if err := rows.Scan(&v.ID, &v.Name, &contact, &v.CreatedAt, &v.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning vendor: %w", err)
		}
		v.Contact = contact.String
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

// DeleteVendor soft-deletes a vendor.
func DeleteVendor(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE vendors SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting vendor: %w", err)
	}
	return nil
}

// CreateDepartment creates a new department.
func CreateDepartment(ctx context.Context, db *sql.DB, name string) (*model.Department, error) {
	result, err := db.ExecContext(ctx, `INSERT INTO departments (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("creating department: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting department id: %w", err)
	}
	return GetDepartment(ctx, db, id)
}

// GetDepartment returns a department by ID.
func GetDepartment(ctx context.Context, db *sql.DB, id int64) (*model.Department, error) {
	d := &model.Department{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, created_at, deleted_at FROM departments WHERE id = ?`, id,
	).Scan(&d.ID, &d.Name, &d.CreatedAt, &d.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting department: %w", err)
	}
	return d, nil
}

// ListDepartments returns all non-deleted departments.
func ListDepartments(ctx context.Context, db *sql.DB) ([]model.Department, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, created_at, deleted_at FROM departments WHERE deleted_at IS NULL ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing departments: %w", err)
	}
	defer rows.Close()

	var departments []model.Department
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning department: %w", err)
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

// DeleteDepartment soft-deletes a department.
func DeleteDepartment(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE departments SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting department: %w", err)
	}
	return nil
}
