package store

import (
	"context"
	"testing"
	"time"

	"github.com/zanvidmar/oprema/internal/db"
	"github.com/zanvidmar/oprema/internal/model"
)

func TestCreateAndGetAsset(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	price := 1299.99
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	asset, err := CreateAsset(ctx, database, AssetParams{
		AssetNo:      "A-001",
		Name:         "MacBook Pro",
		Model:        "M4",
		PurchaseDate: &date,
		Location:     "Office 2",
		Price:        &price,
	}, nil)
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if asset.Status != model.AssetStatusDraft {
		t.Errorf("expected draft status, got %q", asset.Status)
	}

	got, err := GetAsset(ctx, database, asset.ID)
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	if got.AssetNo != "A-001" || got.Name != "MacBook Pro" || got.Model != "M4" {
		t.Errorf("unexpected asset: %+v", got)
	}
	if got.Price == nil || *got.Price != price {
		t.Errorf("expected price %v, got %v", price, got.Price)
	}
}

func TestCreateAssetDuplicateNumber(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateAsset(ctx, database, AssetParams{AssetNo: "A-001", Name: "First"}, nil); err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if _, err := CreateAsset(ctx, database, AssetParams{AssetNo: "A-001", Name: "Second"}, nil); err == nil {
		t.Fatal("expected error for duplicate asset number")
	}
}

func TestAssetTypeAndVendorJoins(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	assetType, _ := CreateAssetType(ctx, database, "Laptop")
	vendor, _ := CreateVendor(ctx, database, "Dell", "sales@dell.example")

	asset, err := CreateAsset(ctx, database, AssetParams{
		AssetNo:  "A-002",
		Name:     "Latitude",
		TypeID:   &assetType.ID,
		VendorID: &vendor.ID,
	}, nil)
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if asset.TypeName != "Laptop" || asset.VendorName != "Dell" {
		t.Errorf("expected joined names, got type=%q vendor=%q", asset.TypeName, asset.VendorName)
	}
}

func TestListAssetsByStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a1, _ := CreateAsset(ctx, database, AssetParams{AssetNo: "A-001", Name: "One"}, nil)
	CreateAsset(ctx, database, AssetParams{AssetNo: "A-002", Name: "Two"}, nil)
	StockInUnit(ctx, database, a1.ID, "SN-1", "", nil)

	drafts, err := ListAssets(ctx, database, model.AssetStatusDraft)
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(drafts) != 1 || drafts[0].AssetNo != "A-002" {
		t.Errorf("expected only A-002 in draft, got %v", drafts)
	}

	all, err := ListAssets(ctx, database, "")
	if err != nil {
		t.Fatalf("ListAssets all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 assets, got %d", len(all))
	}
}

func TestRetireAsset(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	asset, _ := CreateAsset(ctx, database, AssetParams{AssetNo: "A-001", Name: "Old"}, nil)
	user, _ := CreateUser(ctx, database, "h", "", "", "hash", model.RoleUser)
	unit, _ := StockInUnit(ctx, database, asset.ID, "SN-1", "", nil)
	CheckoutUnit(ctx, database, unit.ID, user.ID, "", nil, 30)

	// A checked-out unit blocks retirement.
	if err := RetireAsset(ctx, database, asset.ID); !model.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	ReturnUnit(ctx, database, unit.ID, user.ID, "")
	if err := RetireAsset(ctx, database, asset.ID); err != nil {
		t.Fatalf("RetireAsset: %v", err)
	}

	got, _ := GetAsset(ctx, database, asset.ID)
	if got.Status != model.AssetStatusRetired {
		t.Errorf("expected retired, got %q", got.Status)
	}
}

func TestAssetPhoto(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	asset, _ := CreateAsset(ctx, database, AssetParams{AssetNo: "A-001", Name: "Cam"}, nil)

	data, mime, err := GetAssetPhoto(ctx, database, asset.ID)
	if err != nil {
		t.Fatalf("GetAssetPhoto: %v", err)
	}
	if data != nil {
		t.Error("expected no photo initially")
	}
	_ = mime

	photo := []byte{0xff, 0xd8, 0xff, 0xe0}
	if err := SetAssetPhoto(ctx, database, asset.ID, photo, "image/jpeg"); err != nil {
		t.Fatalf("SetAssetPhoto: %v", err)
	}

	data, mime, err = GetAssetPhoto(ctx, database, asset.ID)
	if err != nil {
		t.Fatalf("GetAssetPhoto: %v", err)
	}
	if len(data) != len(photo) || mime != "image/jpeg" {
		t.Errorf("unexpected photo round trip: %d bytes, mime %q", len(data), mime)
	}
}
