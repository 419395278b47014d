package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"worklog/internal/amqp"
	"worklog/internal/core"
	applog "worklog/internal/log"
	"worklog/internal/records"
	"worklog/internal/storage"
)

// RecordService is the durable backend's mutation path: SQLite first, then
// a best-effort event publish. Publish failures never fail the operation;
// the record is already persisted locally.
type RecordService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

// Ensure interface conformance
var _ records.Backend = (*RecordService)(nil)

// NewRecordService wraps the repository. amqpClient may be nil, in which
// case events are skipped.
func NewRecordService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *RecordService {
	return &RecordService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// ListRecords implements records.Lister.
func (s *RecordService) ListRecords(ctx context.Context) ([]core.Record, error) {
	return s.storage.ListRecords(ctx)
}

// CreateRecord saves the record and publishes a created event.
func (s *RecordService) CreateRecord(ctx context.Context, draft core.Draft) (core.Record, error) {
	rec, err := s.storage.CreateRecord(ctx, draft)
	if err != nil {
		return core.Record{}, fmt.Errorf("save record: %w", err)
	}

	if err := s.publish(ctx, amqp.EventRecordCreated, rec.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record created event",
			applog.FieldRecordID, rec.ID, applog.FieldError, err)
	}

	return rec, nil
}

// DeleteRecord deletes the record and publishes a deleted event. An absent
// id passes through as records.ErrNotFound without an event.
func (s *RecordService) DeleteRecord(ctx context.Context, id int64) error {
	if err := s.storage.DeleteRecord(ctx, id); err != nil {
		return err
	}

	if err := s.publish(ctx, amqp.EventRecordDeleted, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record deleted event",
			applog.FieldRecordID, id, applog.FieldError, err)
	}

	return nil
}

func (s *RecordService) publish(ctx context.Context, event string, id int64) error {
	if s.amqpClient == nil {
		return nil
	}
	return s.amqpClient.PublishRecordEvent(ctx, event, id)
}

// Close closes both storage and AMQP connections
func (s *RecordService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	return errors.Join(errs...)
}
