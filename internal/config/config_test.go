package config

import (
	"os"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestSplitTables(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{"plain list", "a,b,c", []string{"a", "b", "c"}},
		{"trims whitespace", " opinions , referrals ", []string{"opinions", "referrals"}},
		{"drops empty entries", "opinions,,referrals,", []string{"opinions", "referrals"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := splitTables(tc.raw)
			if len(result) != len(tc.expected) {
				t.Fatalf("Expected %d tables, got %d: %v", len(tc.expected), len(result), result)
			}
			for i := range result {
				if result[i] != tc.expected[i] {
					t.Errorf("Expected table %d to be %q, got %q", i, tc.expected[i], result[i])
				}
			}
		})
	}
}

func TestSplitTables_PreservesOrder(t *testing.T) {
	// Purge order matters: dependent tables must be deleted first.
	result := splitTables(defaultPurgeTables)
	if len(result) == 0 {
		t.Fatal("Expected default purge table list to be non-empty")
	}
	if result[0] != "opinion_reactions" {
		t.Errorf("Expected opinion_reactions first, got %q", result[0])
	}
	if result[len(result)-1] != "pending_deletions" {
		t.Errorf("Expected pending_deletions last, got %q", result[len(result)-1])
	}
}

func TestDefaultPurgeTables_CannotLockOutAdmin(t *testing.T) {
	// The bulk purge must not delete the calling admin's role grant or
	// identity; both would make every subsequent admin operation impossible.
	for _, table := range splitTables(defaultPurgeTables) {
		if table == "role_grants" {
			t.Error("Expected role_grants to be excluded from the default purge list")
		}
		if table == "users" {
			t.Error("Expected users to be excluded from the default purge list")
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/inphrone_test")
	os.Setenv("REDIS_URL", "redis://localhost:6379")
	os.Setenv("JWT_SECRET", "test-secret")
	defer func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("REDIS_URL")
		os.Unsetenv("JWT_SECRET")
	}()

	cfg := Load()

	if cfg.DBMaxConns != 25 || cfg.DBMinConns != 5 {
		t.Errorf("Expected pool defaults 25/5, got %d/%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.DeletionGraceDays != 30 {
		t.Errorf("Expected 30 day grace period, got %d", cfg.DeletionGraceDays)
	}
	if len(cfg.PurgeTables) == 0 {
		t.Error("Expected a default purge table list")
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("NONEXISTENT_REQUIRED_VAR")
	mustGetEnv("NONEXISTENT_REQUIRED_VAR")
}

func TestMustGetEnv_ReturnsValue(t *testing.T) {
	os.Setenv("TEST_REQUIRED", "value123")
	defer os.Unsetenv("TEST_REQUIRED")

	result := mustGetEnv("TEST_REQUIRED")
	if result != "value123" {
		t.Errorf("Expected 'value123', got %q", result)
	}
}
