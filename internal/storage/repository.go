package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"worklog/internal/core"
	applog "worklog/internal/log"
	"worklog/internal/records"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable record backend: an on-disk records table
// behind database/sql. It is consumed by the worklogd API handlers, never
// directly by the record store.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

// Ensure interface conformance
var _ records.Backend = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateRecord implements records.Writer.
func (r *SQLiteRepository) CreateRecord(ctx context.Context, draft core.Draft) (core.Record, error) {
	if err := draft.Validate(); err != nil {
		return core.Record{}, err
	}

	names, err := json.Marshal(draft.Names)
	if err != nil {
		return core.Record{}, fmt.Errorf("encode names: %w", err)
	}

	row, err := r.queries.CreateRecord(ctx, CreateRecordParams{
		Names:     string(names),
		Date:      draft.Date.String(),
		Type:      string(draft.Type),
		Duration:  string(draft.Duration),
		CreatedAt: time.Now().UTC().UnixMilli(),
	})
	if err != nil {
		return core.Record{}, fmt.Errorf("create record: %w", err)
	}

	rec, err := rowToRecord(row)
	if err != nil {
		return core.Record{}, err
	}

	slog.InfoContext(ctx, "Record saved to SQLite",
		applog.FieldRecordID, rec.ID,
		applog.FieldNames, rec.Names,
		applog.FieldRecordDate, rec.Date.String(),
		"type", rec.Type,
		"duration", rec.Duration)

	return rec, nil
}

// ListRecords implements records.Lister. Rows come back newest first.
func (r *SQLiteRepository) ListRecords(ctx context.Context) ([]core.Record, error) {
	rows, err := r.queries.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	out := make([]core.Record, 0, len(rows))
	now := time.Now()
	for _, row := range rows {
		rec, err := rowToRecord(row)
		if err != nil {
			return nil, err
		}
		rec.Normalize(now)
		out = append(out, rec)
	}
	return out, nil
}

// DeleteRecord implements records.Deleter. An absent id reports
// records.ErrNotFound so the API can answer 404 rather than failing.
func (r *SQLiteRepository) DeleteRecord(ctx context.Context, id int64) error {
	affected, err := r.queries.DeleteRecord(ctx, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if affected == 0 {
		return records.ErrNotFound
	}

	slog.InfoContext(ctx, "Record deleted from SQLite", applog.FieldRecordID, id)
	return nil
}

func rowToRecord(row RecordRow) (core.Record, error) {
	var names []string
	if err := json.Unmarshal([]byte(row.Names), &names); err != nil {
		return core.Record{}, fmt.Errorf("decode names for record %d: %w", row.ID, err)
	}

	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Record{}, fmt.Errorf("decode date for record %d: %w", row.ID, err)
	}

	return core.Record{
		ID:        row.ID,
		Names:     names,
		Date:      date,
		Type:      core.EventType(row.Type),
		Duration:  core.Duration(row.Duration),
		CreatedAt: time.UnixMilli(row.CreatedAt).UTC(),
	}, nil
}
