package model

import "time"

// Asset represents an asset type record (the "what"), as opposed to the
// individually tracked inventory units of it (the "which one").
type Asset struct {
	ID           int64      `json:"id"`
	AssetNo      string     `json:"asset_no"`
	Name         string     `json:"name"`
	TypeID       *int64     `json:"type_id,omitempty"`
	Model        string     `json:"model,omitempty"`
	VendorID     *int64     `json:"vendor_id,omitempty"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty"`
	Status       string     `json:"status"`
	Location     string     `json:"location,omitempty"`
	Price        *float64   `json:"price,omitempty"`
	PhotoMime    string     `json:"photo_mime,omitempty"`
	CreatedBy    *int64     `json:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`

	// Joined fields (not always populated).
	TypeName   string `json:"type_name,omitempty"`
	VendorName string `json:"vendor_name,omitempty"`
}

// Asset statuses.
const (
	AssetStatusDraft   = "draft"
	AssetStatusInStock = "in_stock"
	AssetStatusRetired = "retired"
)

// AssetType is a master-data category for assets (e.g. "Laptop").
type AssetType struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Vendor is a master-data supplier record.
type Vendor struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Contact   string     `json:"contact,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Department is a master-data organizational unit.
type Department struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
