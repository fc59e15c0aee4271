package app

import (
	"log/slog"
	"net/http"

	"directory.fixr.org/internal/cache"
	"directory.fixr.org/internal/config"
	"directory.fixr.org/internal/directory"
	"directory.fixr.org/internal/geocode"
	"directory.fixr.org/internal/location"
)

// Application wires the directory core together: the cache gateway feeding
// the store's bootstrap, the geocoder feeding record creation, and the
// location resolver feeding proximity ranking. The HTTP handlers in this
// package are the surface external collaborators consume.
type Application struct {
	Config   *config.Config
	Store    *directory.Store
	Gateway  *cache.Gateway
	Geocoder *geocode.Client
	Locator  *location.Resolver
	Logger   *slog.Logger
	Version  string
}

// New creates and wires all dependencies for the Application.
func New(cfg *config.Config, logger *slog.Logger, client *http.Client, version string) *Application {
	gateway := cache.New(cfg.CacheDir, cfg.CacheVersion, cfg.SnapshotURL, cfg.MaxRetries, client, logger)
	store := directory.NewStore(cfg.DataDir, gateway, logger)
	geocoder := geocode.NewClient(cfg.GeocoderURL, client, logger)

	var source location.Source = location.UnsupportedSource{}
	if cfg.DeviceLat != nil && cfg.DeviceLng != nil {
		source = location.FixedSource{Latitude: *cfg.DeviceLat, Longitude: *cfg.DeviceLng}
	}

	return &Application{
		Config:   cfg,
		Store:    store,
		Gateway:  gateway,
		Geocoder: geocoder,
		Locator:  location.NewResolver(source, logger),
		Logger:   logger,
		Version:  version,
	}
}
