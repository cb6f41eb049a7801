package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Point at a file that does not exist — Load must fall back, not fail.
	t.Setenv("SITEFOLIO_CONFIG", filepath.Join(t.TempDir(), "missing.conf"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with missing file: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("default port = %q, want 8080", cfg.Port)
	}
	if cfg.BackendURL == "" {
		t.Error("default backend URL is empty")
	}
	if cfg.Theme.Primary == "" {
		t.Error("default theme primary color is empty")
	}
	if cfg.HasStorage() {
		t.Error("HasStorage() = true with no storage credentials")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitefolio.conf")
	content := "# test config\nAPP_PORT=9090\nBACKEND_URL=https://api.example.com\nTHEME_PRIMARY=#ff0000\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SITEFOLIO_CONFIG", path)
	// godotenv does not override variables already present in the
	// environment, so make sure these are unset for the test.
	t.Setenv("APP_PORT", "")
	t.Setenv("BACKEND_URL", "")
	t.Setenv("THEME_PRIMARY", "")
	os.Unsetenv("APP_PORT")
	os.Unsetenv("BACKEND_URL")
	os.Unsetenv("THEME_PRIMARY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Port)
	}
	if cfg.BackendURL != "https://api.example.com" {
		t.Errorf("backend URL = %q", cfg.BackendURL)
	}
	if cfg.Theme.Primary != "#ff0000" {
		t.Errorf("theme primary = %q", cfg.Theme.Primary)
	}
}

func TestProductionRequiresSecrets(t *testing.T) {
	t.Setenv("SITEFOLIO_CONFIG", filepath.Join(t.TempDir(), "missing.conf"))
	t.Setenv("APP_ENV", "production")
	t.Setenv("POSTGRES_PASSWORD", "")
	os.Unsetenv("POSTGRES_PASSWORD")

	if _, err := Load(); err == nil {
		t.Error("expected error for production with default DB password")
	}

	t.Setenv("POSTGRES_PASSWORD", "real-password")
	t.Setenv("TOKEN_SECRET", "")
	os.Unsetenv("TOKEN_SECRET")
	if _, err := Load(); err == nil {
		t.Error("expected error for production with default token secret")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d",
	}
	want := "postgres://u:p@h:5432/d?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
