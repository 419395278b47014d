// Package store unifies the durable and ephemeral record backends behind
// one interface. Operations target the configured backend; when the
// durable backend fails, the same operation is transparently re-executed
// against the ephemeral backend. The fallback is one-way: records written
// that way live only in the ephemeral store, and the two backends are
// never merged or reconciled.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"worklog/internal/backend"
	"worklog/internal/core"
	applog "worklog/internal/log"
	"worklog/internal/records"
)

type Store struct {
	mu        sync.Mutex
	mode      backend.Type
	durable   records.Backend
	ephemeral records.Backend
}

// Ensure interface conformance
var _ records.Backend = (*Store)(nil)

// New creates a store over the two backends. The mode selects which one
// operations target; the ephemeral backend additionally serves as the
// fallback while the durable backend is active.
func New(mode backend.Type, durable, ephemeral records.Backend) (*Store, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("invalid backend mode: %s", mode)
	}
	if durable == nil || ephemeral == nil {
		return nil, errors.New("both backends are required")
	}
	return &Store{
		mode:      mode,
		durable:   durable,
		ephemeral: ephemeral,
	}, nil
}

// Mode returns the currently configured backend.
func (s *Store) Mode() backend.Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetBackend switches the target backend. The switch takes effect on the
// next operation and migrates no data between the backends.
func (s *Store) SetBackend(mode backend.Type) error {
	if !mode.IsValid() {
		return fmt.Errorf("invalid backend mode: %s", mode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if mode != s.mode {
		slog.Info("Switching record backend", "from", s.mode, "to", mode)
		s.mode = mode
	}
	return nil
}

// ListRecords returns all records from the active backend, most recently
// created first.
func (s *Store) ListRecords(ctx context.Context) ([]core.Record, error) {
	if s.Mode() == backend.Durable {
		list, err := s.durable.ListRecords(ctx)
		if err == nil {
			return list, nil
		}
		s.logFallback(ctx, applog.OpList, err)
	}
	list, err := s.ephemeral.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("ephemeral list: %w", err)
	}
	return list, nil
}

// CreateRecord validates the draft, then persists it on the active
// backend, falling back to the ephemeral store on durable failure. The
// returned record carries the backend-assigned id and created_at.
func (s *Store) CreateRecord(ctx context.Context, draft core.Draft) (core.Record, error) {
	if err := draft.Validate(); err != nil {
		return core.Record{}, err
	}

	if s.Mode() == backend.Durable {
		rec, err := s.durable.CreateRecord(ctx, draft)
		if err == nil {
			return rec, nil
		}
		s.logFallback(ctx, applog.OpCreate, err)
	}
	rec, err := s.ephemeral.CreateRecord(ctx, draft)
	if err != nil {
		return core.Record{}, fmt.Errorf("ephemeral create: %w", err)
	}
	return rec, nil
}

// DeleteRecord removes the record with the given id. Deleting an absent
// id is a successful no-op on either backend, and a durable "not found"
// does not trigger a fallback delete of a record that was never there.
func (s *Store) DeleteRecord(ctx context.Context, id int64) error {
	if s.Mode() == backend.Durable {
		err := s.durable.DeleteRecord(ctx, id)
		if err == nil || errors.Is(err, records.ErrNotFound) {
			return nil
		}
		s.logFallback(ctx, applog.OpDelete, err)
	}
	err := s.ephemeral.DeleteRecord(ctx, id)
	if err != nil && !errors.Is(err, records.ErrNotFound) {
		return fmt.Errorf("ephemeral delete: %w", err)
	}
	return nil
}

func (s *Store) logFallback(ctx context.Context, op string, err error) {
	slog.WarnContext(ctx, "Durable backend failed, retrying on ephemeral store",
		applog.FieldOperation, op,
		applog.FieldBackend, backend.Ephemeral,
		applog.FieldError, err)
}
