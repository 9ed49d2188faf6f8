package model

import "testing"

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		minimum  string
		expected bool
	}{
		{"admin meets admin", RoleAdmin, RoleAdmin, true},
		{"admin meets manager", RoleAdmin, RoleManager, true},
		{"admin meets user", RoleAdmin, RoleUser, true},
		{"manager below admin", RoleManager, RoleAdmin, false},
		{"manager meets manager", RoleManager, RoleManager, true},
		{"manager meets user", RoleManager, RoleUser, true},
		{"user below admin", RoleUser, RoleAdmin, false},
		{"user below manager", RoleUser, RoleManager, false},
		{"user meets user", RoleUser, RoleUser, true},
		{"unknown role denied", "unknown", RoleUser, false},
		{"unknown minimum denied", RoleAdmin, "unknown", false},
		{"empty both denied", "", "", false},
		{"empty role denied", "", RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoleAtLeast(tt.role, tt.minimum); got != tt.expected {
				t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", tt.role, tt.minimum, got, tt.expected)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	u := &User{Username: "jsmith"}
	if got := u.DisplayName(); got != "jsmith" {
		t.Errorf("DisplayName() = %q, want username fallback", got)
	}
	u.FullName = "Jana Smith"
	if got := u.DisplayName(); got != "Jana Smith" {
		t.Errorf("DisplayName() = %q, want full name", got)
	}
}

func TestValidatePassword(t *testing.T) {
	valid := []string{"12345678", "a-valid-password"}
	for _, p := range valid {
		if err := ValidatePassword(p); err != nil {
			t.Errorf("ValidatePassword(%q) = %v, want nil", p, err)
		}
	}

	invalid := []string{"", "short", "1234567"}
	for _, p := range invalid {
		if err := ValidatePassword(p); err == nil {
			t.Errorf("ValidatePassword(%q) = nil, want error", p)
		}
	}
}
