package geocode

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"directory.fixr.org/internal/geo"
)

func newTestScheduler(t *testing.T, handler http.HandlerFunc, delay time.Duration) (*Scheduler, *atomic.Int64) {
	t.Helper()

	var requests atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(ts.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := NewClient(ts.URL, &http.Client{Timeout: 5 * time.Second}, logger)
	return NewScheduler(client, delay), &requests
}

func TestSchedulerDebounces(t *testing.T) {
	s, requests := newTestScheduler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"6.5244","lon":"3.3792"}]`))
	}, 30*time.Millisecond)

	var mu sync.Mutex
	var applied []geo.Point

	apply := func(p geo.Point, err error) {
		if err != nil {
			t.Errorf("unexpected lookup error: %v", err)
			return
		}
		mu.Lock()
		applied = append(applied, p)
		mu.Unlock()
	}

	// Rapid edits within the quiescence window: only the last survives.
	s.Schedule(context.Background(), "Lagos I", apply)
	s.Schedule(context.Background(), "Lagos Is", apply)
	s.Schedule(context.Background(), "Lagos Island", apply)

	time.Sleep(200 * time.Millisecond)

	if got := requests.Load(); got != 1 {
		t.Errorf("expected exactly 1 lookup after debounce, got %d", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(applied) != 1 {
		t.Fatalf("expected exactly 1 applied result, got %d", len(applied))
	}
	if applied[0] != (geo.Point{Lat: 6.5244, Lng: 3.3792}) {
		t.Errorf("unexpected applied point: %+v", applied[0])
	}
}

func TestSchedulerDiscardsStaleResults(t *testing.T) {
	release := make(chan struct{})
	s, _ := newTestScheduler(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "First address" {
			<-release // hold the first lookup in flight
			w.Write([]byte(`[{"lat":"1.0","lon":"1.0"}]`))
			return
		}
		w.Write([]byte(`[{"lat":"2.0","lon":"2.0"}]`))
	}, 5*time.Millisecond)

	var mu sync.Mutex
	var applied []geo.Point
	apply := func(p geo.Point, err error) {
		if err != nil {
			return
		}
		mu.Lock()
		applied = append(applied, p)
		mu.Unlock()
	}

	s.Schedule(context.Background(), "First address", apply)
	time.Sleep(50 * time.Millisecond) // let the first lookup fire and block

	s.Schedule(context.Background(), "Second address", apply)
	time.Sleep(50 * time.Millisecond)
	close(release) // first lookup finishes after being superseded
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(applied) != 1 {
		t.Fatalf("expected only the latest result applied, got %d results", len(applied))
	}
	if applied[0] != (geo.Point{Lat: 2.0, Lng: 2.0}) {
		t.Errorf("stale result applied: %+v", applied[0])
	}
}

func TestSchedulerShortInput(t *testing.T) {
	s, requests := newTestScheduler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}, 5*time.Millisecond)

	applied := false
	s.Schedule(context.Background(), "Lagos Island", func(geo.Point, error) { applied = true })
	// A shorter edit arrives before the window closes: the pending lookup
	// must be cancelled and nothing scheduled in its place.
	s.Schedule(context.Background(), "La", func(geo.Point, error) { applied = true })

	time.Sleep(100 * time.Millisecond)

	if requests.Load() != 0 {
		t.Errorf("expected no lookups, got %d", requests.Load())
	}
	if applied {
		t.Error("apply must not run for short input")
	}
}

func TestSchedulerCancel(t *testing.T) {
	s, requests := newTestScheduler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}, 20*time.Millisecond)

	s.Schedule(context.Background(), "Lagos Island", func(geo.Point, error) {
		t.Error("apply must not run after Cancel")
	})
	s.Cancel()

	time.Sleep(100 * time.Millisecond)

	if requests.Load() != 0 {
		t.Errorf("expected no lookups after cancel, got %d", requests.Load())
	}
}
