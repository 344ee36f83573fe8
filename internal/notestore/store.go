// Package notestore is the durable date-keyed note store for local
// mode: one JSON blob on disk holding the whole date -> record map,
// loaded once at startup and rewritten in full on every mutation.
package notestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/moodnotes/core/internal/models"
	"github.com/moodnotes/core/internal/pkg/apperr"
	"go.uber.org/zap"
)

// Store owns the in-memory map and its durable blob. It performs no
// locking of its own: mutations must be serialized by the caller, the
// way the UI only ever issues one save/delete per user action.
type Store struct {
	path   string
	logger *zap.Logger
	notes  map[string]models.NoteRecord
}

func New(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:   path,
		logger: logger,
		notes:  map[string]models.NoteRecord{},
	}
}

// Load reads the blob from disk. A missing or unparseable blob is
// treated as "no notes yet" and never fails the caller.
func (s *Store) Load() map[string]models.NoteRecord {
	s.notes = map[string]models.NoteRecord{}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("notes blob unreadable, starting empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return s.Snapshot()
	}

	var notes map[string]models.NoteRecord
	if err := json.Unmarshal(raw, &notes); err != nil {
		s.logger.Warn("notes blob corrupt, starting empty",
			zap.String("path", s.path), zap.Error(err))
		return s.Snapshot()
	}
	if notes != nil {
		s.notes = notes
	}
	return s.Snapshot()
}

// SaveNote inserts or fully replaces the record at date and rewrites
// the blob. A record with empty text and no mood is retained as a real
// entry; deletion only happens through DeleteNote.
func (s *Store) SaveNote(date string, record models.NoteRecord) error {
	if !models.ValidDateKey(date) {
		return fmt.Errorf("%w: %q", apperr.ErrInvalidDate, date)
	}
	if record.Mood != "" && !record.Mood.Valid() {
		return fmt.Errorf("%w: %q", apperr.ErrInvalidMood, record.Mood)
	}
	s.notes[date] = record
	return s.persist()
}

// DeleteNote removes the key entirely and rewrites. Deleting an absent
// key is a no-op and skips the rewrite.
func (s *Store) DeleteNote(date string) error {
	if !models.ValidDateKey(date) {
		return fmt.Errorf("%w: %q", apperr.ErrInvalidDate, date)
	}
	if _, ok := s.notes[date]; !ok {
		return nil
	}
	delete(s.notes, date)
	return s.persist()
}

// Get returns the record at date, if present.
func (s *Store) Get(date string) (models.NoteRecord, bool) {
	r, ok := s.notes[date]
	return r, ok
}

// Snapshot returns a copy of the mapping for readers.
func (s *Store) Snapshot() map[string]models.NoteRecord {
	out := make(map[string]models.NoteRecord, len(s.notes))
	for k, v := range s.notes {
		out[k] = v
	}
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int { return len(s.notes) }

// Path returns the blob location (used by the backup module).
func (s *Store) Path() string { return s.path }

// persist serializes the whole map and replaces the blob atomically.
// Whole-document write-through on every mutation is deliberate: the
// document is small and callers depend on the replace semantics.
func (s *Store) persist() error {
	raw, err := json.Marshal(s.notes)
	if err != nil {
		return fmt.Errorf("serialize notes: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".notes-*.json")
	if err != nil {
		return fmt.Errorf("write notes blob: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write notes blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write notes blob: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace notes blob: %w", err)
	}
	return nil
}
