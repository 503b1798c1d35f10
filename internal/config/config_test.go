package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://ophim1.com/v1/api" {
		t.Fatalf("unexpected api base: %q", cfg.APIBaseURL)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Fatalf("unexpected fetch timeout: %v", cfg.FetchTimeout)
	}
	if !cfg.UsesDefaultSecret() {
		t.Fatalf("expected default secret")
	}
	if cfg.IsProduction() {
		t.Fatalf("expected development env")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("API_BASE_URL", "http://example.test/api/")
	t.Setenv("IMAGE_BASE_URL", "http://img.example.test")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://example.test/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.APIBaseURL)
	}
	if cfg.ImageBaseURL != "http://img.example.test/" {
		t.Fatalf("expected trailing slash added, got %q", cfg.ImageBaseURL)
	}
	if cfg.FetchTimeout != 3*time.Second {
		t.Fatalf("unexpected fetch timeout: %v", cfg.FetchTimeout)
	}
	if !cfg.IsProduction() {
		t.Fatalf("expected production env")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	body := `{"SITE_NAME": "Phim Test", "SESSION_CAPACITY": 12}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SiteName != "Phim Test" {
		t.Fatalf("unexpected site name: %q", cfg.SiteName)
	}
	if cfg.SessionCapacity != 12 {
		t.Fatalf("unexpected capacity: %d", cfg.SessionCapacity)
	}
}
