package model

import "time"

// Unit represents one physical, individually trackable instance of an asset.
//
// While IN_STOCK the holder, expected-return and reminder fields are empty;
// while CHECKED_OUT the holder is always set. The reminder fields
// (LastReminderAt, ReminderCount) are written only by the reminder engine.
type Unit struct {
	ID               int64      `json:"id"`
	AssetID          int64      `json:"asset_id"`
	SerialNo         string     `json:"serial_no"`
	Status           string     `json:"status"`
	Location         string     `json:"location,omitempty"`
	HolderID         *int64     `json:"holder_id,omitempty"`
	CheckedOutAt     *time.Time `json:"checked_out_at,omitempty"`
	ExpectedReturnAt *time.Time `json:"expected_return_at,omitempty"`
	LastReminderAt   *time.Time `json:"last_reminder_at,omitempty"`
	ReminderCount    int        `json:"reminder_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Joined fields (not always populated).
	AssetName   string `json:"asset_name,omitempty"`
	AssetNo     string `json:"asset_no,omitempty"`
	HolderName  string `json:"holder_name,omitempty"`
	HolderEmail string `json:"holder_email,omitempty"`
}

// Unit statuses.
const (
	UnitStatusInStock    = "IN_STOCK"
	UnitStatusCheckedOut = "CHECKED_OUT"
)

// CheckoutRecord is an append-only log entry of a checkout or return event.
type CheckoutRecord struct {
	ID        int64     `json:"id"`
	UnitID    int64     `json:"unit_id"`
	UserID    int64     `json:"user_id"`
	Type      string    `json:"type"`
	Remark    string    `json:"remark,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields (not always populated).
	Username string `json:"username,omitempty"`
	SerialNo string `json:"serial_no,omitempty"`
}

// Checkout record types.
const (
	RecordTypeCheckout = "CHECKOUT"
	RecordTypeReturn   = "RETURN"
)
