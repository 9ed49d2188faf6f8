package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/zanvidmar/oprema/internal/config"
	"github.com/zanvidmar/oprema/internal/db"
	"github.com/zanvidmar/oprema/internal/mail"
	"github.com/zanvidmar/oprema/internal/model"
	"github.com/zanvidmar/oprema/internal/reminder"
	"github.com/zanvidmar/oprema/internal/store"
)

const testJWTSecret = "test-secret"

func testLoanConfig() config.LoanConfig {
	return config.LoanConfig{
		ReminderEnabled:      true,
		DefaultDurationDays:  30,
		ReminderCron:         "0 9 * * MON",
		ReminderCooldownDays: 7,
		ReminderLeadDays:     7,
		ReminderEmailFrom:    "no-reply@example.com",
	}
}

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	database := db.NewTestDB(t)

	loan := testLoanConfig()
	resolver := &mail.Resolver{DB: database, DefaultFrom: loan.ReminderEmailFrom}
	engine := &reminder.Engine{DB: database, Resolver: resolver, Loan: loan}
	scheduler := reminder.NewScheduler(engine.RunCycle, loan.ReminderCron)
	t.Cleanup(scheduler.Stop)

	router := NewRouter(database, testJWTSecret, loan, engine, scheduler)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Create admin user.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	store.CreateUser(ctx, database, "admin", "Admin", "admin@example.com", string(hash), model.RoleAdmin)

	// Get token.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "password"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	token := loginResp["token"]
	if token == "" {
		t.Fatal("empty token from login")
	}

	return server, token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func doJSON(t *testing.T, req *http.Request, wantStatus int, out any) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d", req.Method, req.URL.Path, wantStatus, resp.StatusCode)
	}
	if out != nil {
		json.NewDecoder(resp.Body).Decode(out)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	// Test invalid credentials.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	doJSON(t, req, http.StatusOK, nil)

	// The revoked token no longer authenticates.
	req, _ = authRequest("GET", server.URL+"/api/users", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAssetsAPIFlow(t *testing.T) {
	server, token := setupTestServer(t)

	// Create asset.
	var asset model.Asset
	req, _ := authRequest("POST", server.URL+"/api/assets", token, map[string]any{
		"asset_no": "A-0001",
		"name":     "ThinkPad X1",
	})
	doJSON(t, req, http.StatusCreated, &asset)
	if asset.Status != model.AssetStatusDraft {
		t.Errorf("expected new asset in draft status, got %q", asset.Status)
	}

	// Duplicate asset number is rejected.
	req, _ = authRequest("POST", server.URL+"/api/assets", token, map[string]any{
		"asset_no": "A-0001",
		"name":     "Another",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate asset_no, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// List assets.
	var assets []model.Asset
	req, _ = authRequest("GET", server.URL+"/api/assets", token, nil)
	doJSON(t, req, http.StatusOK, &assets)
	if len(assets) != 1 {
		t.Errorf("expected 1 asset, got %d", len(assets))
	}
}

func TestUnitLifecycleFlow(t *testing.T) {
	server, token := setupTestServer(t)

	var asset model.Asset
	req, _ := authRequest("POST", server.URL+"/api/assets", token, map[string]any{
		"asset_no": "A-0002",
		"name":     "Projector",
	})
	doJSON(t, req, http.StatusCreated, &asset)

	// Stock in a unit; the asset leaves draft.
	var unit model.Unit
	req, _ = authRequest("POST", server.URL+"/api/units", token, map[string]any{
		"asset_id":  asset.ID,
		"serial_no": "SN-100",
		"location":  "Shelf 3",
	})
	doJSON(t, req, http.StatusCreated, &unit)
	if unit.Status != model.UnitStatusInStock {
		t.Fatalf("expected unit in stock, got %q", unit.Status)
	}

	var stocked model.Asset
	req, _ = authRequest("GET", server.URL+"/api/assets/"+itoa(asset.ID), token, nil)
	doJSON(t, req, http.StatusOK, &stocked)
	if stocked.Status != model.AssetStatusInStock {
		t.Errorf("expected asset in_stock after stock-in, got %q", stocked.Status)
	}

	// Checkout to the admin user (ID 1).
	var checked model.Unit
	req, _ = authRequest("POST", server.URL+"/api/units/"+itoa(unit.ID)+"/checkout", token, map[string]any{
		"user_id": 1,
	})
	doJSON(t, req, http.StatusOK, &checked)
	if checked.Status != model.UnitStatusCheckedOut {
		t.Fatalf("expected unit checked out, got %q", checked.Status)
	}
	if checked.ExpectedReturnAt == nil {
		t.Fatal("expected a default due date")
	}

	// Double checkout conflicts.
	req, _ = authRequest("POST", server.URL+"/api/units/"+itoa(unit.ID)+"/checkout", token, map[string]any{
		"user_id": 1,
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for double checkout, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Return.
	var returned model.Unit
	req, _ = authRequest("POST", server.URL+"/api/units/"+itoa(unit.ID)+"/return", token, map[string]any{
		"remark": "all good",
	})
	doJSON(t, req, http.StatusOK, &returned)
	if returned.Status != model.UnitStatusInStock {
		t.Fatalf("expected unit back in stock, got %q", returned.Status)
	}
	if returned.HolderID != nil {
		t.Error("expected holder cleared after return")
	}

	// Two records: checkout then return, newest first.
	var records []model.CheckoutRecord
	req, _ = authRequest("GET", server.URL+"/api/units/"+itoa(unit.ID)+"/records", token, nil)
	doJSON(t, req, http.StatusOK, &records)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Type != model.RecordTypeReturn {
		t.Errorf("expected newest record to be RETURN, got %q", records[0].Type)
	}
}

func TestReminderSettingsFlow(t *testing.T) {
	server, token := setupTestServer(t)

	// Nothing saved yet.
	req, _ := authRequest("GET", server.URL+"/api/settings/reminders", token, nil)
	doJSON(t, req, http.StatusOK, nil)

	// Save settings with a custom cron.
	var saved model.ReminderSettings
	req, _ = authRequest("PUT", server.URL+"/api/settings/reminders", token, map[string]any{
		"sender_email":  "loans@example.com",
		"smtp_host":     "smtp.example.com",
		"smtp_port":     2525,
		"smtp_username": "loans",
		"smtp_password": "hunter22",
		"reminder_cron": "0 8 * * *",
	})
	doJSON(t, req, http.StatusOK, &saved)
	if saved.ReminderCron != "0 8 * * *" {
		t.Errorf("expected saved cron, got %q", saved.ReminderCron)
	}
	if saved.SMTPPassword != "" {
		t.Error("SMTP password must not be returned")
	}

	// Malformed cron expressions are rejected before saving.
	req, _ = authRequest("PUT", server.URL+"/api/settings/reminders", token, map[string]any{
		"reminder_cron": "not a cron",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad cron, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRoleEnforcement(t *testing.T) {
	server, token := setupTestServer(t)

	// Create a plain user.
	req, _ := authRequest("POST", server.URL+"/api/users", token, map[string]any{
		"username": "viewer",
		"password": "password123",
		"role":     model.RoleUser,
	})
	doJSON(t, req, http.StatusCreated, nil)

	// Log in as the plain user.
	body, _ := json.Marshal(map[string]string{"username": "viewer", "password": "password123"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	resp.Body.Close()
	userToken := loginResp["token"]

	// Plain users can read assets.
	req, _ = authRequest("GET", server.URL+"/api/assets", userToken, nil)
	doJSON(t, req, http.StatusOK, nil)

	// But cannot create them.
	req, _ = authRequest("POST", server.URL+"/api/assets", userToken, map[string]any{
		"asset_no": "A-0009",
		"name":     "Forbidden",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for user creating asset, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Or read the audit log.
	req, _ = authRequest("GET", server.URL+"/api/audit", userToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for user reading audit log, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
