package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"directory.fixr.org/internal/config"
)

// newTestApplication builds an Application against temp directories and a
// stub snapshot server, so tests never touch the real network or leave
// state behind.
func newTestApplication(t *testing.T, snapshot string) *Application {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(snapshot))
	}))
	t.Cleanup(ts.Close)

	cfg := config.NewConfig(4000, "testing")
	cfg.SnapshotURL = ts.URL + "/handymen.json"
	cfg.DataDir = t.TempDir()
	cfg.CacheDir = t.TempDir()
	cfg.GeocoderURL = ts.URL + "/geocode"
	cfg.MaxRetries = 1

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := &http.Client{Timeout: 5 * time.Second}

	return New(cfg, logger, client, "test-version")
}

// setupTestServer creates an httptest.Server with the provided handler and
// closes it when the test ends.
func setupTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(func() { ts.Close() })
	return ts
}
