package config

import (
	"time"
)

// Config holds all the configuration settings for the directory service.
type Config struct {
	Port int
	Env  string

	// SnapshotURL is the well-known location of the bundled provider
	// snapshot. Requests for exactly this resource are the only ones the
	// cache gateway makes offline-durable.
	SnapshotURL string

	// DataDir holds the persisted record set (records.json).
	DataDir string

	// CacheDir is the parent directory for persistent snapshot caches.
	// Each cache generation lives in its own subdirectory named after
	// CacheVersion; generations under any other name are purged on
	// activation.
	CacheDir     string
	CacheVersion string

	// GeocoderURL is the search endpoint of the Nominatim-compatible
	// geocoding service.
	GeocoderURL string

	// RefreshInterval controls the background snapshot cache re-prime.
	// Zero disables the refresh loop.
	RefreshInterval time.Duration

	// MaxRetries bounds retry attempts for outgoing snapshot fetches.
	MaxRetries int

	// DeviceLat/DeviceLng optionally pin the session's device position.
	// When unset the geolocation resolver reports the position as
	// unavailable for the whole session.
	DeviceLat *float64
	DeviceLng *float64
}

// NewConfig returns a Config populated with defaults that mirror the
// original deployment: the snapshot at /handymen.json relative to the public
// origin, the fixr-v1 cache generation, and the public Nominatim endpoint.
func NewConfig(port int, env string) *Config {
	return &Config{
		Port:            port,
		Env:             env,
		SnapshotURL:     "https://fixr.org/handymen.json",
		DataDir:         "data",
		CacheDir:        "cache",
		CacheVersion:    "fixr-v1",
		GeocoderURL:     "https://nominatim.openstreetmap.org/search",
		RefreshInterval: 24 * time.Hour,
		MaxRetries:      3,
	}
}
