package worker

import (
	"context"
	"errors"
	"testing"

	"worklog/internal/amqp"
	"worklog/internal/core"
)

type fakeLister struct {
	items []core.Record
	err   error
}

func (f *fakeLister) ListRecords(context.Context) ([]core.Record, error) {
	return f.items, f.err
}

type fakeExporter struct {
	snapshots [][]core.PersonStats
	err       error
}

func (f *fakeExporter) ExportStats(_ context.Context, stats []core.PersonStats) error {
	if f.err != nil {
		return f.err
	}
	f.snapshots = append(f.snapshots, stats)
	return nil
}

func TestExportSnapshot(t *testing.T) {
	lister := &fakeLister{items: []core.Record{
		{ID: 1, Names: []string{"A"}, Date: core.NewDate(2024, 1, 5), Type: core.Overtime, Duration: core.Full},
		{ID: 2, Names: []string{"A", "B"}, Date: core.NewDate(2024, 2, 10), Type: core.Leave, Duration: core.Morning},
	}}
	exporter := &fakeExporter{}
	w := NewExportWorker(lister, exporter)

	if err := w.Export(context.Background()); err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(exporter.snapshots) != 1 {
		t.Fatalf("expected one snapshot, got %d", len(exporter.snapshots))
	}

	snap := exporter.snapshots[0]
	if len(snap) != 2 || snap[0].Name != "A" || snap[1].Name != "B" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap[0].OvertimeCount != 1 || snap[0].LeaveDays != 0.5 {
		t.Fatalf("unexpected stats for A: %+v", snap[0])
	}
}

func TestExportPropagatesErrors(t *testing.T) {
	w := NewExportWorker(&fakeLister{err: errors.New("db down")}, &fakeExporter{})
	if err := w.Export(context.Background()); err == nil {
		t.Fatalf("expected error from lister")
	}

	w = NewExportWorker(&fakeLister{}, &fakeExporter{err: errors.New("quota")})
	if err := w.Export(context.Background()); err == nil {
		t.Fatalf("expected error from exporter")
	}
}

func TestHandleEventTriggersExport(t *testing.T) {
	exporter := &fakeExporter{}
	w := NewExportWorker(&fakeLister{}, exporter)

	ev := amqp.NewRecordEvent(amqp.EventRecordCreated, 7)
	if err := w.HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(exporter.snapshots) != 1 {
		t.Fatalf("event did not trigger an export")
	}
}
