package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"directory.fixr.org/internal/app"
	"directory.fixr.org/internal/config"
	"directory.fixr.org/internal/report"
	"github.com/getsentry/sentry-go"
)

const version = "1.0.0"

func main() {
	var (
		port       = flag.Int("port", 4000, "API server port")
		env        = flag.String("env", "development", "Environment (development|staging|production)")
		configFile = flag.String("config-file", "", "Path to a local JSON configuration file")
		resetData  = flag.Bool("reset-data", false, "Discard the persisted record set and re-seed from the bundled snapshot")
		deviceLat  = flag.Float64("lat", 0, "Device latitude for proximity ranking")
		deviceLng  = flag.Float64("lng", 0, "Device longitude for proximity ranking")
	)

	flag.Parse()

	report.SetupSentry()
	defer report.FlushSentry()
	report.ConfigureScope(*env, version)

	cfg := config.NewConfig(*port, *env)

	if *configFile != "" {
		if err := config.LoadFromFile(*configFile, cfg); err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}
	}

	// The lat/lng pair pins the session position; a device without one
	// runs the whole session unlocated.
	if isFlagSet("lat") && isFlagSet("lng") {
		cfg.DeviceLat = deviceLat
		cfg.DeviceLng = deviceLng
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if *resetData {
		if err := resetPersistedRecords(cfg.DataDir, logger); err != nil {
			logger.Error("Failed to reset persisted records", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application := app.New(cfg, logger, app.NewPooledClient(), version)

	// Prime the snapshot cache before serving. Activation failures are
	// soft: a warm cache or the persisted record set can still carry the
	// session.
	application.Gateway.Activate(ctx)

	go application.Store.Bootstrap(ctx)
	go application.Locator.Resolve(ctx)

	if cfg.RefreshInterval > 0 {
		go refreshSnapshot(ctx, application, cfg.RefreshInterval)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      application.Routes(ctx),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env)
	err := srv.ListenAndServe()
	report.ReportError(err, sentry.LevelFatal)
	report.FlushSentry()
	logger.Error(err.Error())
	os.Exit(1)
}

// isFlagSet reports whether the named flag was passed on the command line,
// distinguishing an explicit 0 from an absent flag.
func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// resetPersistedRecords removes the persisted record set so the next
// bootstrap re-seeds from the bundled snapshot.
func resetPersistedRecords(dataDir string, logger *slog.Logger) error {
	path := filepath.Join(dataDir, "records.json")
	err := os.Remove(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Level: sentry.LevelError,
			ExtraContext: map[string]interface{}{
				"data_dir": dataDir,
			},
		})
		return err
	}
	logger.Info("Removed persisted record set", "path", path)
	return nil
}

// refreshSnapshot re-fetches the bundled snapshot at the configured interval
// so a long-lived process does not serve an arbitrarily stale cache.
func refreshSnapshot(ctx context.Context, application *app.Application, interval time.Duration) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}

		if err := application.Gateway.Refresh(ctx); err != nil {
			report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
				Level: sentry.LevelWarning,
			})
			application.Logger.Error("Failed to refresh snapshot cache", "error", err)
			continue
		}
		application.Logger.Info("Successfully refreshed snapshot cache")
	}
}
