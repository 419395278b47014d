package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"worklog/internal/backend"
	"worklog/internal/core"
	"worklog/internal/records"
)

// fakeBackend is an in-memory records.Backend whose failures can be
// toggled to exercise the fallback path.
type fakeBackend struct {
	items  []core.Record
	nextID int64
	fail   error
}

func newFakeBackend(startID int64) *fakeBackend {
	return &fakeBackend{nextID: startID}
}

func (f *fakeBackend) ListRecords(context.Context) ([]core.Record, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	out := make([]core.Record, 0, len(f.items))
	for i := len(f.items) - 1; i >= 0; i-- {
		out = append(out, f.items[i])
	}
	return out, nil
}

func (f *fakeBackend) CreateRecord(_ context.Context, draft core.Draft) (core.Record, error) {
	if f.fail != nil {
		return core.Record{}, f.fail
	}
	rec := core.Record{
		ID:        f.nextID,
		Names:     draft.Names,
		Date:      draft.Date,
		Type:      draft.Type,
		Duration:  draft.Duration,
		CreatedAt: time.Now(),
	}
	f.nextID++
	f.items = append(f.items, rec)
	return rec, nil
}

func (f *fakeBackend) DeleteRecord(_ context.Context, id int64) error {
	if f.fail != nil {
		return f.fail
	}
	for i, r := range f.items {
		if r.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return records.ErrNotFound
}

func draft(names ...string) core.Draft {
	return core.Draft{
		Names:    names,
		Date:     core.NewDate(2024, 1, 5),
		Type:     core.Overtime,
		Duration: core.Full,
	}
}

func newTestStore(t *testing.T, mode backend.Type) (*Store, *fakeBackend, *fakeBackend) {
	t.Helper()
	durable := newFakeBackend(100)
	ephemeral := newFakeBackend(9000)
	s, err := New(mode, durable, ephemeral)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s, durable, ephemeral
}

func TestCreateOnDurable(t *testing.T) {
	s, durable, ephemeral := newTestStore(t, backend.Durable)
	ctx := context.Background()

	rec, err := s.CreateRecord(ctx, draft("Alice"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(durable.items) != 1 || len(ephemeral.items) != 0 {
		t.Fatalf("record landed on the wrong backend")
	}

	list, err := s.ListRecords(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != rec.ID {
		t.Fatalf("created record missing from list: %+v", list)
	}
}

func TestCreateFallsBackOnDurableFailure(t *testing.T) {
	s, durable, ephemeral := newTestStore(t, backend.Durable)
	ctx := context.Background()

	durable.fail = errors.New("connection refused")

	rec, err := s.CreateRecord(ctx, draft("Alice"))
	if err != nil {
		t.Fatalf("create should succeed via fallback, got %v", err)
	}
	if len(ephemeral.items) != 1 {
		t.Fatalf("record not written to ephemeral store")
	}

	// list also falls back and reflects the record
	list, err := s.ListRecords(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != rec.ID {
		t.Fatalf("fallback record missing from fallback list: %+v", list)
	}
}

// A record written via fallback lives only in the ephemeral store: once
// the durable backend recovers, the durable view no longer shows it.
func TestFallbackIsNotReconciled(t *testing.T) {
	s, durable, _ := newTestStore(t, backend.Durable)
	ctx := context.Background()

	durable.fail = errors.New("backend down")
	if _, err := s.CreateRecord(ctx, draft("Alice")); err != nil {
		t.Fatalf("fallback create: %v", err)
	}

	durable.fail = nil
	list, err := s.ListRecords(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("fallback write must not appear once the durable backend recovers: %+v", list)
	}
}

func TestEphemeralFailurePropagates(t *testing.T) {
	s, durable, ephemeral := newTestStore(t, backend.Durable)
	ctx := context.Background()

	durable.fail = errors.New("backend down")
	ephemeral.fail = errors.New("disk full")

	if _, err := s.CreateRecord(ctx, draft("Alice")); err == nil {
		t.Fatalf("expected error when both backends fail")
	}
	if _, err := s.ListRecords(ctx); err == nil {
		t.Fatalf("expected list error when both backends fail")
	}
}

func TestCreateValidatesBeforeAnyBackendCall(t *testing.T) {
	s, durable, ephemeral := newTestStore(t, backend.Durable)

	if _, err := s.CreateRecord(context.Background(), core.Draft{}); !errors.Is(err, core.ErrEmptyNames) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(durable.items) != 0 || len(ephemeral.items) != 0 {
		t.Fatalf("invalid draft must not reach a backend")
	}
}

func TestDeleteAbsentIsNoOp(t *testing.T) {
	s, durable, ephemeral := newTestStore(t, backend.Durable)
	ctx := context.Background()

	if _, err := s.CreateRecord(ctx, draft("Alice")); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Durable answers not-found; that must not become an error and must
	// not fall through to an ephemeral delete.
	if err := s.DeleteRecord(ctx, 424242); err != nil {
		t.Fatalf("absent delete should be a no-op, got %v", err)
	}
	if len(durable.items) != 1 || len(ephemeral.items) != 0 {
		t.Fatalf("absent delete altered a backend")
	}
}

func TestDelete(t *testing.T) {
	s, _, _ := newTestStore(t, backend.Durable)
	ctx := context.Background()

	rec, _ := s.CreateRecord(ctx, draft("Alice"))
	if err := s.DeleteRecord(ctx, rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ := s.ListRecords(ctx)
	for _, r := range list {
		if r.ID == rec.ID {
			t.Fatalf("record still present after delete")
		}
	}
}

func TestSetBackend(t *testing.T) {
	s, durable, ephemeral := newTestStore(t, backend.Durable)
	ctx := context.Background()

	if _, err := s.CreateRecord(ctx, draft("Alice")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.SetBackend(backend.Ephemeral); err != nil {
		t.Fatalf("set backend: %v", err)
	}
	if s.Mode() != backend.Ephemeral {
		t.Fatalf("mode not switched: %s", s.Mode())
	}

	// Subsequent operations target the ephemeral store; no data moved.
	if _, err := s.CreateRecord(ctx, draft("Bob")); err != nil {
		t.Fatalf("create after switch: %v", err)
	}
	if len(durable.items) != 1 || len(ephemeral.items) != 1 {
		t.Fatalf("switch must not migrate data: durable=%d ephemeral=%d",
			len(durable.items), len(ephemeral.items))
	}

	list, _ := s.ListRecords(ctx)
	if len(list) != 1 || list[0].Names[0] != "Bob" {
		t.Fatalf("ephemeral mode must read only the ephemeral store: %+v", list)
	}

	if err := s.SetBackend("sheets"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

// While in ephemeral mode a durable outage is irrelevant.
func TestEphemeralModeIgnoresDurable(t *testing.T) {
	s, durable, _ := newTestStore(t, backend.Ephemeral)
	durable.fail = errors.New("backend down")

	if _, err := s.CreateRecord(context.Background(), draft("Alice")); err != nil {
		t.Fatalf("create in ephemeral mode: %v", err)
	}
}
