package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	// Set some test environment variables
	if err := os.Setenv("SERVER_PORT", "9090"); err != nil {
		t.Fatalf("Failed to set SERVER_PORT: %v", err)
	}
	if err := os.Setenv("POSTGRES_HOST", "testhost"); err != nil {
		t.Fatalf("Failed to set POSTGRES_HOST: %v", err)
	}
	if err := os.Setenv("SESSION_CACHE_TTL", "30m"); err != nil {
		t.Fatalf("Failed to set SESSION_CACHE_TTL: %v", err)
	}
	if err := os.Setenv("DEMO_MODE", "true"); err != nil {
		t.Fatalf("Failed to set DEMO_MODE: %v", err)
	}
	defer func() {
		_ = os.Unsetenv("SERVER_PORT")
		_ = os.Unsetenv("POSTGRES_HOST")
		_ = os.Unsetenv("SESSION_CACHE_TTL")
		_ = os.Unsetenv("DEMO_MODE")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %v, want %v", cfg.Server.Port, "9090")
	}

	if cfg.Database.Postgres.Host != "testhost" {
		t.Errorf("Database.Postgres.Host = %v, want %v", cfg.Database.Postgres.Host, "testhost")
	}

	if cfg.Cache.SessionTTL != 30*time.Minute {
		t.Errorf("Cache.SessionTTL = %v, want %v", cfg.Cache.SessionTTL, 30*time.Minute)
	}

	if !cfg.Auth.DemoMode {
		t.Error("Auth.DemoMode = false, want true")
	}
}

func TestAuditLogEnabled(t *testing.T) {
	cfg := &Config{}
	if cfg.AuditLogEnabled() {
		t.Error("AuditLogEnabled() = true with no ClickHouse host")
	}

	cfg.Database.ClickHouse.Host = "localhost"
	if !cfg.AuditLogEnabled() {
		t.Error("AuditLogEnabled() = false with ClickHouse host set")
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue time.Duration
		want         time.Duration
	}{
		{"valid duration", "45s", time.Minute, 45 * time.Second},
		{"invalid duration falls back", "nonsense", time.Minute, time.Minute},
		{"empty falls back", "", time.Minute, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				_ = os.Setenv("TEST_DURATION", tt.envValue)
				defer func() { _ = os.Unsetenv("TEST_DURATION") }()
			}

			got := getEnvAsDuration("TEST_DURATION", tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvAsDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}
