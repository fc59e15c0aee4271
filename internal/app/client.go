package app

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"directory.fixr.org/internal/metrics"
)

// latencyTrackingRoundTripper wraps another RoundTripper to measure the
// duration of each outgoing HTTP request and export it to Prometheus,
// labeled by URL, method and status. Wrapping the transport instruments
// every snapshot and geocoding call without touching their logic.
type latencyTrackingRoundTripper struct {
	next http.RoundTripper
}

func (rt *latencyTrackingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := rt.next.RoundTrip(req)
	duration := time.Since(start).Seconds()

	status := "error"
	if err == nil && resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}

	// Normalized URL label without query params, so geocoding queries do
	// not explode label cardinality.
	safeURL := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path

	metrics.OutgoingLatency.WithLabelValues(
		safeURL,
		req.Method,
		status,
	).Observe(duration)

	return resp, err
}

// NewPooledClient returns an HTTP client shared by the snapshot and
// geocoding paths. Connection reuse matters here: the geocoder talks to one
// host repeatedly, and the snapshot origin is polled by the refresh loop.
//
//   - MaxIdleConns / MaxIdleConnsPerHost keep keep-alive connections to the
//     snapshot origin and the geocoding service warm between requests.
//   - DialContext and TLSHandshakeTimeout fail fast when either host is
//     unreachable, which is the normal offline case for this application.
//   - The overall 10s client timeout bounds the full request lifecycle so a
//     stalled network never wedges a bootstrap or a lookup.
func NewPooledClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 5 * time.Second,
	}

	instrumentedTransport := &latencyTrackingRoundTripper{next: transport}

	client := &http.Client{
		Transport: instrumentedTransport,
		Timeout:   10 * time.Second,
	}
	return client
}
