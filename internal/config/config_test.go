package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.Loan.DefaultDurationDays != 30 {
		t.Errorf("expected default loan duration 30, got %d", cfg.Loan.DefaultDurationDays)
	}
	if cfg.Loan.ReminderCron != "0 9 * * MON" {
		t.Errorf("expected weekly Monday cron, got %q", cfg.Loan.ReminderCron)
	}
	if !cfg.Loan.ReminderEnabled {
		t.Error("expected reminders enabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("LOAN_DEFAULT_DURATION_DAYS", "14")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected env addr, got %q", cfg.Server.Addr)
	}
	if cfg.Loan.DefaultDurationDays != 14 {
		t.Errorf("expected env duration 14, got %d", cfg.Loan.DefaultDurationDays)
	}
	if cfg.SMTP.Host != "smtp.example.com" {
		t.Errorf("expected env smtp host, got %q", cfg.SMTP.Host)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  addr: ":7070"
loan:
  reminder_cooldown_days: 3
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("expected file addr, got %q", cfg.Server.Addr)
	}
	if cfg.Loan.ReminderCooldownDays != 3 {
		t.Errorf("expected cooldown 3 from file, got %d", cfg.Loan.ReminderCooldownDays)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("LOAN_DEFAULT_DURATION_DAYS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for zero duration")
	}
}
