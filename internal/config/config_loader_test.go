package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromFile(t *testing.T) {
	t.Run("applies overrides", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.json")
		content := `{
			"snapshotUrl": "https://example.com/handymen.json",
			"cacheVersion": "fixr-v2",
			"refreshInterval": "1h",
			"maxRetries": 5,
			"deviceLat": 6.5244,
			"deviceLng": 3.3792
		}`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cfg := NewConfig(4000, "testing")
		if err := LoadFromFile(path, cfg); err != nil {
			t.Fatalf("LoadFromFile failed: %v", err)
		}

		if cfg.SnapshotURL != "https://example.com/handymen.json" {
			t.Errorf("expected snapshot URL override, got %q", cfg.SnapshotURL)
		}
		if cfg.CacheVersion != "fixr-v2" {
			t.Errorf("expected cache version 'fixr-v2', got %q", cfg.CacheVersion)
		}
		if cfg.RefreshInterval != time.Hour {
			t.Errorf("expected refresh interval 1h, got %v", cfg.RefreshInterval)
		}
		if cfg.MaxRetries != 5 {
			t.Errorf("expected max retries 5, got %d", cfg.MaxRetries)
		}
		if cfg.DeviceLat == nil || *cfg.DeviceLat != 6.5244 {
			t.Errorf("expected device lat 6.5244, got %v", cfg.DeviceLat)
		}
		// Defaults not named in the file must survive.
		if cfg.GeocoderURL != "https://nominatim.openstreetmap.org/search" {
			t.Errorf("expected default geocoder URL, got %q", cfg.GeocoderURL)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := NewConfig(4000, "testing")
		if err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json"), cfg); err == nil {
			t.Error("expected error for missing file, got nil")
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.json")
		if err := os.WriteFile(path, []byte("{not-json"), 0o644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cfg := NewConfig(4000, "testing")
		if err := LoadFromFile(path, cfg); err == nil {
			t.Error("expected error for invalid JSON, got nil")
		}
	})

	t.Run("invalid refresh interval", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.json")
		if err := os.WriteFile(path, []byte(`{"refreshInterval": "soon"}`), 0o644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cfg := NewConfig(4000, "testing")
		if err := LoadFromFile(path, cfg); err == nil {
			t.Error("expected error for invalid duration, got nil")
		}
	})
}
