package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"worklog/internal/amqp"
	"worklog/internal/core"
	applog "worklog/internal/log"
	"worklog/internal/records"
)

// StatsExporter receives per-person statistics snapshots.
type StatsExporter interface {
	ExportStats(ctx context.Context, stats []core.PersonStats) error
}

// ExportWorker recomputes the full statistics snapshot from the durable
// record set and pushes it to the exporter, either on a record event or
// on a periodic tick. Snapshots are always rebuilt from scratch, so a
// missed or reordered event at worst delays an export.
type ExportWorker struct {
	lister   records.Lister
	exporter StatsExporter
}

func NewExportWorker(lister records.Lister, exporter StatsExporter) *ExportWorker {
	return &ExportWorker{
		lister:   lister,
		exporter: exporter,
	}
}

// Export rebuilds and pushes the current snapshot.
func (w *ExportWorker) Export(ctx context.Context) error {
	list, err := w.lister.ListRecords(ctx)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	stats := core.Summarize(list, core.Filter{})
	if err := w.exporter.ExportStats(ctx, stats); err != nil {
		return fmt.Errorf("export stats: %w", err)
	}

	slog.InfoContext(ctx, "Statistics snapshot exported",
		applog.FieldOperation, applog.OpExport,
		"records", len(list),
		"people", len(stats))
	return nil
}

// HandleEvent reacts to a record lifecycle event by re-exporting.
func (w *ExportWorker) HandleEvent(ctx context.Context, ev *amqp.RecordEvent) error {
	slog.InfoContext(ctx, "Processing record event",
		applog.FieldEvent, ev.Event,
		applog.FieldRecordID, ev.RecordID)
	return w.Export(ctx)
}

// RunPeriodic exports on the given interval until the context is cancelled.
// Errors are logged and the loop keeps going; the next tick retries.
func (w *ExportWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Export(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic export failed", applog.FieldError, err)
			}
		}
	}
}
