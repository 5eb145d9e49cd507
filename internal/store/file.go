// ABOUTME: File-backed Store keeping every record in one JSON document
// ABOUTME: Load-mutate-save per call under an in-process exclusive lock

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// FileStore persists records as a single JSON document of shape
// {userID: {"current": ..., "codes": [...]}}.
//
// Every operation runs a full load-mutate-save cycle; a per-instance mutex
// serializes the cycles so concurrent binds within one process never lose
// an update. The backing file is advisory: unreadable or corrupt content
// degrades to an empty store, because a user can always re-bind.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewFileStore creates a store backed by the JSON document at path.
// The file and its parent directory are created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:   path,
		logger: slog.Default().With("component", "store"),
	}
}

// Bind records code as userID's current code and persists the document.
func (s *FileStore) Bind(ctx context.Context, userID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	rec := records[userID]
	rec.bind(code)
	records[userID] = rec

	return s.save(records)
}

// Current returns userID's current code, or ErrNotBound.
func (s *FileStore) Current(ctx context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.load()[userID]
	if !ok || rec.Current == "" {
		return "", ErrNotBound
	}
	return rec.Current, nil
}

// History returns every code userID has bound, oldest first, or ErrNotBound.
func (s *FileStore) History(ctx context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.load()[userID]
	if !ok {
		return nil, ErrNotBound
	}
	return slices.Clone(rec.Codes), nil
}

// Close is a no-op; the store holds no open resources between calls.
func (s *FileStore) Close() error {
	return nil
}

// load reads the backing document. Any read or parse failure degrades to
// an empty mapping rather than an error. Callers must hold mu.
func (s *FileStore) load() map[string]Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("code store unreadable, treating as empty", "path", s.path, "error", err)
		}
		return make(map[string]Record)
	}

	var records map[string]Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("code store corrupt, treating as empty", "path", s.path, "error", err)
		return make(map[string]Record)
	}
	if records == nil {
		records = make(map[string]Record)
	}
	return records
}

// save persists the full mapping, creating the parent directory on demand.
// The document is written to a sibling temp file and renamed over the
// target so a crash mid-write cannot truncate existing data. Callers must
// hold mu.
func (s *FileStore) save(records map[string]Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding code store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing code store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing code store: %w", err)
	}
	return nil
}
