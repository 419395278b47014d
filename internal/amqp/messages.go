package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	EventRecordCreated = "record.created"
	EventRecordDeleted = "record.deleted"
)

// RecordEvent is a lightweight notification that a record was created or
// deleted. Consumers fetch current data themselves; the event carries only
// the id so stale messages cannot resurrect deleted state.
type RecordEvent struct {
	Event      string    `json:"event"`
	RecordID   int64     `json:"record_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewRecordEvent creates an event for the given record id.
func NewRecordEvent(event string, recordID int64) *RecordEvent {
	return &RecordEvent{
		Event:      event,
		RecordID:   recordID,
		OccurredAt: time.Now(),
	}
}

// Validate checks the event kind.
func (e *RecordEvent) Validate() error {
	switch e.Event {
	case EventRecordCreated, EventRecordDeleted:
		return nil
	default:
		return fmt.Errorf("unknown record event %q", e.Event)
	}
}

// ToJSON converts the event to JSON bytes
func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RecordEventFromJSON creates an event from JSON bytes
func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var ev RecordEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return &ev, nil
}
