package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"directory.fixr.org/internal/cache"
	"directory.fixr.org/internal/metrics"
	"directory.fixr.org/internal/report"
	"directory.fixr.org/internal/utils"
	"github.com/getsentry/sentry-go"
)

const recordsFileName = "records.json"

// Store is the single source of truth for the visible record set: the
// bundled snapshot united with locally added records, persisted as one JSON
// array that is rewritten whole on every mutation. The data volumes of a
// local directory keep whole-set overwrite cheap and leave no partial-write
// inconsistency to reason about.
type Store struct {
	mu      sync.RWMutex
	records []Record
	loaded  bool

	path    string
	gateway *cache.Gateway
	logger  *slog.Logger
}

// NewStore returns a Store persisting to dataDir/records.json and
// bootstrapping through gateway.
func NewStore(dataDir string, gateway *cache.Gateway, logger *slog.Logger) *Store {
	return &Store{
		path:    filepath.Join(dataDir, recordsFileName),
		gateway: gateway,
		logger:  logger,
	}
}

// Bootstrap establishes the initial record set. A persisted local set is
// authoritative and the snapshot is skipped entirely; the snapshot is
// consulted only in its absence, then persisted as the local copy. Every
// failure is soft: the store comes up loaded with an empty set and a logged
// warning, and consumers distinguish "no results" from "not yet loaded"
// through Loaded.
func (s *Store) Bootstrap(ctx context.Context) {
	defer s.markLoaded()

	if data, err := os.ReadFile(s.path); err == nil {
		records, err := decodeRecords(data)
		if err != nil {
			s.warn("Persisted record set is unreadable", err)
			return
		}
		s.setRecords(records)
		s.logger.Info("Loaded persisted record set", "records", len(records), "path", s.path)
		return
	}

	data, err := s.gateway.FetchSnapshot(ctx)
	if err != nil {
		s.warn("Failed to fetch provider snapshot", err)
		return
	}

	records, err := decodeRecords(data)
	if err != nil {
		s.warn("Failed to parse provider snapshot", err)
		return
	}

	s.setRecords(records)
	if err := s.persist(records); err != nil {
		// The set still serves this session; only durability is lost.
		s.warn("Failed to persist initial record set", err)
		return
	}
	s.logger.Info("Bootstrapped record set from snapshot", "records", len(records))
}

// Loaded reports whether Bootstrap has completed, successfully or not.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Records returns a copy of the full visible record set in store order.
func (s *Store) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record(nil), s.records...)
}

// AddRecord validates the candidate, assigns an id, appends it to the set
// and re-persists the whole set synchronously before returning. A
// *ValidationError names the offending field and nothing is persisted.
// Callers serialize submissions; whole-set overwrite has no merge logic for
// interleaved writes.
func (s *Store) AddRecord(candidate Candidate) (Record, error) {
	record, err := candidate.validate()
	if err != nil {
		return Record{}, err
	}
	record.ID = newRecordID()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Generated ids should never collide, but a collision must not
	// corrupt the set: the new local record wins.
	updated := make([]Record, 0, len(s.records)+1)
	for _, existing := range s.records {
		if existing.ID != record.ID {
			updated = append(updated, existing)
		}
	}
	updated = append(updated, record)

	if err := s.persist(updated); err != nil {
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("store_path", s.path),
			Level: sentry.LevelError,
		})
		return Record{}, fmt.Errorf("failed to persist record set: %w", err)
	}

	s.records = updated
	metrics.DirectoryRecords.Set(float64(len(updated)))
	metrics.RecordsAdded.Inc()
	s.logger.Info("Added provider record", "id", record.ID, "name", record.Name)
	return record, nil
}

func (s *Store) markLoaded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
}

func (s *Store) setRecords(records []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	metrics.DirectoryRecords.Set(float64(len(records)))
}

// persist rewrites the full serialized set atomically.
func (s *Store) persist(records []Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) warn(msg string, err error) {
	report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
		Tags:  utils.MakeMap("store_path", s.path),
		Level: sentry.LevelWarning,
	})
	s.logger.Warn(msg, "error", err)
}

func decodeRecords(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
