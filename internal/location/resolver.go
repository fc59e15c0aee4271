package location

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"directory.fixr.org/internal/geo"
)

// ErrUnavailable signals that the platform cannot provide a position, either
// because permission was refused or no position source exists.
var ErrUnavailable = errors.New("device location unavailable")

// State describes the provenance of the session's device position.
type State int

const (
	// Unresolved means the position request is pending or not yet made.
	Unresolved State = iota
	// Resolved means a position was obtained for this session.
	Resolved
	// Denied means permission was refused or the platform failed; the
	// resolver never re-polls, so Denied holds for the rest of the session.
	Denied
)

func (s State) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case Denied:
		return "denied"
	default:
		return "unresolved"
	}
}

// Position is a device coordinate pair as reported by a platform source.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Source obtains the device's current position once. Implementations may
// block until the platform answers; the resolver calls them from their own
// goroutine.
type Source interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// FixedSource reports a position pinned at construction time. It stands in
// for a platform location API on deployments that know where they are.
type FixedSource struct {
	Latitude  float64
	Longitude float64
}

func (s FixedSource) CurrentPosition(ctx context.Context) (Position, error) {
	return Position{Latitude: s.Latitude, Longitude: s.Longitude}, nil
}

// UnsupportedSource always reports the position as unavailable.
type UnsupportedSource struct{}

func (UnsupportedSource) CurrentPosition(ctx context.Context) (Position, error) {
	return Position{}, ErrUnavailable
}

// Resolver obtains the device position once per session, non-blocking.
// Resolve is fired and forgotten at startup; consumers read Snapshot and must
// tolerate an indefinite Unresolved period. Resolved and Denied are both
// absorbing for the remainder of the session.
type Resolver struct {
	mu     sync.RWMutex
	state  State
	point  geo.Point
	source Source
	logger *slog.Logger
}

func NewResolver(source Source, logger *slog.Logger) *Resolver {
	return &Resolver{
		source: source,
		logger: logger,
	}
}

// Resolve asks the source for the current position and records the terminal
// state. Meant to be called once, from its own goroutine. Calls after a
// terminal state has been reached are no-ops.
func (r *Resolver) Resolve(ctx context.Context) {
	r.mu.RLock()
	settled := r.state != Unresolved
	r.mu.RUnlock()
	if settled {
		return
	}

	pos, err := r.source.CurrentPosition(ctx)
	if err != nil {
		r.settle(Denied, geo.Point{})
		r.logger.Warn("Device location denied or unavailable", "error", err)
		return
	}

	point := geo.Point{Lat: pos.Latitude, Lng: pos.Longitude}
	if !point.Valid() {
		r.settle(Denied, geo.Point{})
		r.logger.Warn("Device location out of range", "lat", pos.Latitude, "lng", pos.Longitude)
		return
	}

	r.settle(Resolved, point)
	r.logger.Info("Device location resolved")
}

func (r *Resolver) settle(state State, point geo.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Unresolved {
		return // terminal states are absorbing
	}
	r.state = state
	r.point = point
}

// Snapshot returns the session position, valid only when the state is
// Resolved.
func (r *Resolver) Snapshot() (geo.Point, State) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.point, r.state
}
