package geocode

import (
	"context"
	"sync"
	"time"

	"directory.fixr.org/internal/geo"
)

// DefaultDebounce is the quiescence window before an address edit triggers a
// lookup.
const DefaultDebounce = 700 * time.Millisecond

// Scheduler debounces address lookups driven by interactive input. Each call
// to Schedule cancels any pending, not-yet-fired lookup, and a generation
// counter guarantees that a result arriving for superseded input is
// discarded rather than applied.
type Scheduler struct {
	mu     sync.Mutex
	client *Client
	delay  time.Duration
	timer  *time.Timer
	gen    uint64
}

// NewScheduler returns a Scheduler around client. A non-positive delay falls
// back to DefaultDebounce.
func NewScheduler(client *Client, delay time.Duration) *Scheduler {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Scheduler{
		client: client,
		delay:  delay,
	}
}

// Schedule arranges for address to be looked up after the quiescence window,
// replacing any pending lookup. apply is invoked with the outcome only if no
// newer input has been scheduled by the time the result arrives. Input
// shorter than MinQueryLen cancels the pending lookup without contacting the
// service or invoking apply.
func (s *Scheduler) Schedule(ctx context.Context, address string, apply func(geo.Point, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if len(address) < MinQueryLen {
		return
	}

	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() {
		point, err := s.client.Lookup(ctx, address)

		s.mu.Lock()
		current := gen == s.gen
		s.mu.Unlock()
		if !current {
			return // superseded while in flight
		}
		apply(point, err)
	})
}

// Cancel invalidates any pending lookup and marks in-flight results stale.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
