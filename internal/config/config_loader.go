package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"directory.fixr.org/internal/report"
	"directory.fixr.org/internal/utils"
	"github.com/getsentry/sentry-go"
)

// fileOverrides is the JSON shape of an optional configuration file. Every
// field is optional; absent fields keep their flag or default value.
type fileOverrides struct {
	SnapshotURL     string   `json:"snapshotUrl"`
	DataDir         string   `json:"dataDir"`
	CacheDir        string   `json:"cacheDir"`
	CacheVersion    string   `json:"cacheVersion"`
	GeocoderURL     string   `json:"geocoderUrl"`
	RefreshInterval string   `json:"refreshInterval"`
	MaxRetries      *int     `json:"maxRetries"`
	DeviceLat       *float64 `json:"deviceLat"`
	DeviceLng       *float64 `json:"deviceLng"`
}

// LoadFromFile applies overrides from a local JSON configuration file on top
// of the given Config. Errors are reported to Sentry and returned so the
// caller can refuse to start with a broken configuration.
func LoadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("file_path", filePath),
			Level: sentry.LevelError,
		})
		return fmt.Errorf("failed to read config file: %v", err)
	}

	var overrides fileOverrides
	if err := json.Unmarshal(data, &overrides); err != nil {
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("file_path", filePath),
			Level: sentry.LevelError,
		})
		return fmt.Errorf("failed to unmarshal JSON: %v", err)
	}

	if overrides.SnapshotURL != "" {
		cfg.SnapshotURL = overrides.SnapshotURL
	}
	if overrides.DataDir != "" {
		cfg.DataDir = overrides.DataDir
	}
	if overrides.CacheDir != "" {
		cfg.CacheDir = overrides.CacheDir
	}
	if overrides.CacheVersion != "" {
		cfg.CacheVersion = overrides.CacheVersion
	}
	if overrides.GeocoderURL != "" {
		cfg.GeocoderURL = overrides.GeocoderURL
	}
	if overrides.RefreshInterval != "" {
		interval, err := time.ParseDuration(overrides.RefreshInterval)
		if err != nil {
			return fmt.Errorf("invalid refreshInterval %q: %v", overrides.RefreshInterval, err)
		}
		cfg.RefreshInterval = interval
	}
	if overrides.MaxRetries != nil {
		cfg.MaxRetries = *overrides.MaxRetries
	}
	if overrides.DeviceLat != nil {
		cfg.DeviceLat = overrides.DeviceLat
	}
	if overrides.DeviceLng != nil {
		cfg.DeviceLng = overrides.DeviceLng
	}

	return nil
}
