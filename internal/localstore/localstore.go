// Package localstore implements the ephemeral record backend: a single
// JSON file holding the whole collection, read and rewritten in full on
// every mutation. It has no network failure mode and is the fallback
// target when the durable backend is unreachable.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"worklog/internal/core"
	"worklog/internal/records"
)

type Store struct {
	mu     sync.Mutex
	path   string
	lastID int64
}

// Ensure interface conformance
var _ records.Backend = (*Store)(nil)

// New creates a store persisting to the given file path. The file is
// created lazily on first write.
func New(path string) *Store {
	return &Store{path: path}
}

// ListRecords returns all records, most recently created first.
func (s *Store) ListRecords(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]core.Record, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		r := items[i]
		r.Normalize(now)
		out = append(out, r)
	}
	return out, nil
}

// CreateRecord appends the draft with a freshly assigned id and created_at,
// rewriting the whole file as one atomic replace.
func (s *Store) CreateRecord(_ context.Context, draft core.Draft) (core.Record, error) {
	if err := draft.Validate(); err != nil {
		return core.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return core.Record{}, err
	}

	rec := core.Record{
		ID:        s.nextID(items),
		Names:     append([]string(nil), draft.Names...),
		Date:      draft.Date,
		Type:      draft.Type,
		Duration:  draft.Duration,
		CreatedAt: time.Now().UTC(),
	}

	items = append(items, rec)
	if err := s.save(items); err != nil {
		return core.Record{}, err
	}
	return rec, nil
}

// DeleteRecord removes the record with the given id, or reports
// records.ErrNotFound when it is absent.
func (s *Store) DeleteRecord(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}

	kept := items[:0]
	found := false
	for _, r := range items {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return records.ErrNotFound
	}
	return s.save(kept)
}

// nextID assigns identifiers from the current Unix-millisecond clock,
// bumped past any already-used id so that creates within the same
// millisecond still get distinct values.
func (s *Store) nextID(items []core.Record) int64 {
	id := time.Now().UnixMilli()
	for _, r := range items {
		if r.ID >= id {
			id = r.ID + 1
		}
	}
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) load() ([]core.Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read record file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var items []core.Record
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode record file: %w", err)
	}
	return items, nil
}

func (s *Store) save(items []core.Record) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write record file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace record file: %w", err)
	}
	return nil
}
