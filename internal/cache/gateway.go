package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"directory.fixr.org/internal/config"
	"directory.fixr.org/internal/metrics"
	"directory.fixr.org/internal/report"
	"directory.fixr.org/internal/utils"
	"github.com/getsentry/sentry-go"
)

// Gateway makes the bundled provider snapshot available without a network
// round-trip after the first successful fetch, while never caching anything
// else. Each cache generation lives in its own subdirectory named after the
// version tag; generations under any other tag are purged on activation so
// stale-schema data cannot linger across deployments.
//
// Caching is strictly best-effort: a failed cache read falls through to the
// network, and a failed cache write never blocks serving the network
// response to the caller.
type Gateway struct {
	dir         string
	version     string
	snapshotURL string
	maxRetries  int
	client      *http.Client
	logger      *slog.Logger
}

// New returns a Gateway for the given snapshot resource. dir is the parent
// cache directory; version is the current cache generation tag.
func New(dir, version, snapshotURL string, maxRetries int, client *http.Client, logger *slog.Logger) *Gateway {
	return &Gateway{
		dir:         dir,
		version:     version,
		snapshotURL: snapshotURL,
		maxRetries:  maxRetries,
		client:      client,
		logger:      logger,
	}
}

// Activate prepares the versioned cache directory, deletes generations that
// do not match the current version tag, and attempts to pre-populate the
// snapshot. Priming failures are logged and reported but never fatal; the
// next Fetch simply goes to the network.
func (g *Gateway) Activate(ctx context.Context) {
	if err := g.ensureCacheDir(); err != nil {
		g.logger.Warn("Failed to prepare snapshot cache directory", "dir", g.dir, "error", err)
		return
	}

	g.purgeStaleGenerations()

	if _, err := os.Stat(g.cachePath()); err == nil {
		return // already primed by a previous session
	}

	if _, err := g.fetchAndStore(ctx); err != nil {
		g.logger.Warn("Failed to prime snapshot cache", "url", g.snapshotURL, "error", err)
	} else {
		g.logger.Info("Primed snapshot cache", "version", g.version)
	}
}

// FetchSnapshot returns the snapshot document. The cache-hit path reads the
// persisted copy and never touches the network. On a miss the snapshot is
// fetched, stored for future hits on HTTP 200, and returned; fetch failures
// propagate unchanged.
func (g *Gateway) FetchSnapshot(ctx context.Context) ([]byte, error) {
	if data, err := os.ReadFile(g.cachePath()); err == nil {
		metrics.SnapshotCacheHits.Inc()
		return data, nil
	}

	metrics.SnapshotCacheMisses.Inc()
	return g.fetchAndStore(ctx)
}

// Fetch retrieves an arbitrary resource. Only the snapshot resource is
// offline-durable; everything else always goes to the network.
func (g *Gateway) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if rawURL == g.snapshotURL {
		return g.FetchSnapshot(ctx)
	}
	return g.fetch(ctx, rawURL)
}

// Refresh re-fetches the snapshot from the network and overwrites the cached
// copy on success. It exists for the background re-prime loop; interactive
// reads keep using FetchSnapshot.
func (g *Gateway) Refresh(ctx context.Context) error {
	if err := g.ensureCacheDir(); err != nil {
		return err
	}
	_, err := g.fetchAndStore(ctx)
	return err
}

func (g *Gateway) ensureCacheDir() error {
	return os.MkdirAll(filepath.Join(g.dir, g.version), 0o755)
}

// purgeStaleGenerations removes every cache subdirectory whose name is not
// the current version tag.
func (g *Gateway) purgeStaleGenerations() {
	entries, err := os.ReadDir(g.dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == g.version {
			continue
		}
		stale := filepath.Join(g.dir, entry.Name())
		if err := os.RemoveAll(stale); err != nil {
			g.logger.Warn("Failed to purge stale cache generation", "path", stale, "error", err)
			continue
		}
		g.logger.Info("Purged stale cache generation", "generation", entry.Name())
	}
}

func (g *Gateway) fetchAndStore(ctx context.Context) ([]byte, error) {
	data, err := g.fetch(ctx, g.snapshotURL)
	if err != nil {
		metrics.SnapshotFetches.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.SnapshotFetches.WithLabelValues("success").Inc()

	if err := g.store(data); err != nil {
		metrics.SnapshotCacheWriteFailures.Inc()
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("snapshot_url", g.snapshotURL),
			Level: sentry.LevelWarning,
		})
		g.logger.Warn("Failed to cache snapshot", "error", err)
	}
	return data, nil
}

func (g *Gateway) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", rawURL, err)
	}

	resp, err := config.DoWithBackoff(ctx, g.client, req, g.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected response status %d from %s", resp.StatusCode, rawURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", rawURL, err)
	}
	return data, nil
}

// store writes the snapshot atomically so a crash mid-write cannot leave a
// truncated cache entry behind.
func (g *Gateway) store(data []byte) error {
	if err := g.ensureCacheDir(); err != nil {
		return err
	}
	path := g.cachePath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// cachePath keys the cached entry by an exact hash of the snapshot URL, so a
// changed URL is a cache miss rather than a stale hit.
func (g *Gateway) cachePath() string {
	hash := sha1.Sum([]byte(g.snapshotURL))
	name := fmt.Sprintf("snapshot_%s.json", hex.EncodeToString(hash[:]))
	return filepath.Join(g.dir, g.version, name)
}
