package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"directory.fixr.org/internal/geo"
	"directory.fixr.org/internal/metrics"
	"directory.fixr.org/internal/report"
	"directory.fixr.org/internal/utils"
	"github.com/getsentry/sentry-go"
)

// ErrNotFound is the single failure outcome of a lookup. Zero matches,
// network errors and unparseable responses all collapse into it; the
// submission flow treats them identically and asks the user to correct the
// address.
var ErrNotFound = errors.New("geocode: address not found")

// MinQueryLen is the shortest address worth sending to the external service.
// Anything shorter is rejected locally so interactive input does not flood
// the service with a request per keystroke.
const MinQueryLen = 5

// Client resolves free-text addresses to coordinates against a
// Nominatim-compatible search endpoint.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		Logger:     logger,
	}
}

// nominatimResult is the subset of a search hit we consume. Coordinates come
// back as strings on the wire.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Lookup resolves address to the first matching result's coordinates.
// Every failure mode resolves to ErrNotFound; the underlying cause is logged
// and reported, never surfaced.
func (c *Client) Lookup(ctx context.Context, address string) (geo.Point, error) {
	address = strings.TrimSpace(address)
	if len(address) < MinQueryLen {
		return geo.Point{}, ErrNotFound
	}

	point, err := c.search(ctx, address)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
				Tags:  utils.MakeMap("geocoder_url", c.BaseURL),
				Level: sentry.LevelWarning,
			})
			c.Logger.Warn("Geocoding lookup failed", "error", err)
		}
		metrics.GeocodeLookups.WithLabelValues("not_found").Inc()
		return geo.Point{}, ErrNotFound
	}

	metrics.GeocodeLookups.WithLabelValues("found").Inc()
	return point, nil
}

func (c *Client) search(ctx context.Context, address string) (geo.Point, error) {
	lookupURL := fmt.Sprintf("%s?format=json&q=%s", c.BaseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return geo.Point{}, fmt.Errorf("failed to create geocoding request: %w", err)
	}
	req.Header.Set("Accept-Language", "en")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return geo.Point{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Point{}, fmt.Errorf("geocoding service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return geo.Point{}, fmt.Errorf("failed to read geocoding response: %w", err)
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return geo.Point{}, fmt.Errorf("failed to parse geocoding response: %w", err)
	}
	if len(results) == 0 {
		return geo.Point{}, ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid latitude %q in geocoding response: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid longitude %q in geocoding response: %w", results[0].Lon, err)
	}

	return geo.Point{Lat: lat, Lng: lng}, nil
}
