package storage

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB / *sql.Tx the queries need.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// RecordRow is the raw database shape of a record. Names is a JSON array
// serialized into a text column; CreatedAt is unix milliseconds.
type RecordRow struct {
	ID        int64
	Names     string
	Date      string
	Type      string
	Duration  string
	CreatedAt int64
}

type CreateRecordParams struct {
	Names     string
	Date      string
	Type      string
	Duration  string
	CreatedAt int64
}

const createRecord = `
INSERT INTO records (names, date, type, duration, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id, names, date, type, duration, created_at
`

func (q *Queries) CreateRecord(ctx context.Context, arg CreateRecordParams) (RecordRow, error) {
	row := q.db.QueryRowContext(ctx, createRecord,
		arg.Names, arg.Date, arg.Type, arg.Duration, arg.CreatedAt)
	var r RecordRow
	err := row.Scan(&r.ID, &r.Names, &r.Date, &r.Type, &r.Duration, &r.CreatedAt)
	return r, err
}

const listRecords = `
SELECT id, names, date, type, duration, created_at
FROM records
ORDER BY created_at DESC, id DESC
`

func (q *Queries) ListRecords(ctx context.Context) ([]RecordRow, error) {
	rows, err := q.db.QueryContext(ctx, listRecords)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []RecordRow
	for rows.Next() {
		var r RecordRow
		if err := rows.Scan(&r.ID, &r.Names, &r.Date, &r.Type, &r.Duration, &r.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const deleteRecord = `
DELETE FROM records WHERE id = ?
`

// DeleteRecord removes the row and returns the number of rows affected.
func (q *Queries) DeleteRecord(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteRecord, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
