package store

import (
	"context"
	"testing"

	"github.com/zanvidmar/oprema/internal/db"
	"github.com/zanvidmar/oprema/internal/model"
)

func TestLifecycleWritesAuditTrail(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	asset, _ := CreateAsset(ctx, database, AssetParams{AssetNo: "A-001", Name: "Drill"}, nil)
	user, _ := CreateUser(ctx, database, "worker", "", "", "hash", model.RoleUser)

	unit, err := StockInUnit(ctx, database, asset.ID, "SN-1", "", &user.ID)
	if err != nil {
		t.Fatalf("StockInUnit: %v", err)
	}
	if _, err := CheckoutUnit(ctx, database, unit.ID, user.ID, "field work", nil, 30); err != nil {
		t.Fatalf("CheckoutUnit: %v", err)
	}
	if _, err := ReturnUnit(ctx, database, unit.ID, user.ID, ""); err != nil {
		t.Fatalf("ReturnUnit: %v", err)
	}

	entries, err := ListAuditLog(ctx, database, 10)
	if err != nil {
		t.Fatalf("ListAuditLog: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 audit entries, got %d", len(entries))
	}

	// Newest first.
	wantActions := []string{model.AuditActionReturn, model.AuditActionCheckout, model.AuditActionStockIn}
	for i, want := range wantActions {
		if entries[i].Action != want {
			t.Errorf("entry %d: expected action %q, got %q", i, want, entries[i].Action)
		}
	}
	if entries[1].Detail != "field work" {
		t.Errorf("expected checkout remark in detail, got %q", entries[1].Detail)
	}
}

func TestListAuditLogLimit(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	asset, _ := CreateAsset(ctx, database, AssetParams{AssetNo: "A-001", Name: "Cable"}, nil)
	for i := 0; i < 5; i++ {
		if _, err := StockInUnit(ctx, database, asset.ID, "SN-"+string(rune('a'+i)), "", nil); err != nil {
			t.Fatalf("StockInUnit %d: %v", i, err)
		}
	}

	entries, err := ListAuditLog(ctx, database, 3)
	if err != nil {
		t.Fatalf("ListAuditLog: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected limit of 3, got %d", len(entries))
	}
}
