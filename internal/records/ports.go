package records

import (
	"context"
	"errors"

	"worklog/internal/core"
)

// ErrNotFound is returned by backends when a record id does not exist.
// Callers treat a delete of an absent id as a successful no-op.
var ErrNotFound = errors.New("record not found")

// Ports for record persistence backends.
type (
	Lister interface {
		// ListRecords returns every record in backend-native order,
		// most recently created first, with decode-time defaults applied.
		ListRecords(ctx context.Context) ([]core.Record, error)
	}

	Writer interface {
		// CreateRecord persists the draft, assigning id and created_at,
		// and returns the stored record.
		CreateRecord(ctx context.Context, draft core.Draft) (core.Record, error)
	}

	Deleter interface {
		// DeleteRecord removes the record with the given id. Backends
		// report an absent id as ErrNotFound.
		DeleteRecord(ctx context.Context, id int64) error
	}

	// Backend is the full persistence surface a record store needs.
	Backend interface {
		Lister
		Writer
		Deleter
	}
)
