package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Overtime EventType = "overtime"
	Leave    EventType = "leave"

	Full      Duration = "full"
	Morning   Duration = "morning"
	Afternoon Duration = "afternoon"
)

type (
	// EventType distinguishes overtime from leave records.
	EventType string

	// Duration is the day span a record covers. Full counts as one
	// day-equivalent, the half-day variants as 0.5 each.
	Duration string

	Date struct {
		time.Time
	}

	// Record is one persisted overtime/leave event. A single record may
	// name several people; Duration applies to every name equally.
	Record struct {
		ID        int64     `json:"id"`
		Names     []string  `json:"names"`
		Date      Date      `json:"date"`
		Type      EventType `json:"type"`
		Duration  Duration  `json:"duration,omitempty"`
		CreatedAt time.Time `json:"created_at,omitempty"`
	}

	// Draft is the caller-supplied input to a create operation. ID and
	// CreatedAt are assigned by the backend at write time, never by the
	// caller.
	Draft struct {
		Names    []string  `json:"names"`
		Date     Date      `json:"date"`
		Type     EventType `json:"type"`
		Duration Duration  `json:"duration"`
	}
)

var (
	ErrEmptyNames      = errors.New("empty names")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidType     = errors.New("invalid event type")
	ErrInvalidDuration = errors.New("invalid duration")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// YearString returns the four-digit year, e.g. "2024".
func (d Date) YearString() string {
	return d.Format("2006")
}

// YearMonth returns the year-month prefix, e.g. "2024-01".
func (d Date) YearMonth() string {
	return d.Format("2006-01")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (t EventType) IsValid() bool {
	switch t {
	case Overtime, Leave:
		return true
	default:
		return false
	}
}

func (d Duration) IsValid() bool {
	switch d {
	case Full, Morning, Afternoon:
		return true
	default:
		return false
	}
}

// Days returns the day-equivalent weight used in aggregation.
func (d Duration) Days() float64 {
	if d == Full {
		return 1.0
	}
	return 0.5
}

func (dr Draft) Validate() error {
	if len(dr.Names) == 0 {
		return ErrEmptyNames
	}
	for _, n := range dr.Names {
		if strings.TrimSpace(n) == "" {
			return ErrEmptyNames
		}
	}
	if err := dr.Date.Validate(); err != nil {
		return err
	}
	if !dr.Type.IsValid() {
		return ErrInvalidType
	}
	if !dr.Duration.IsValid() {
		return ErrInvalidDuration
	}
	return nil
}

// ParseNames splits free-text input on runs of whitespace (including
// newlines) into trimmed, non-empty name tokens. Whitespace-only input
// yields nil.
func ParseNames(input string) []string {
	return strings.Fields(input)
}

// Normalize applies decode-time defaults for records written before the
// duration and created_at fields existed: a missing duration becomes Full
// and a zero created_at is stamped with now. The stamp is display-only and
// is not written back to the backend.
func (r *Record) Normalize(now time.Time) {
	if r.Duration == "" {
		r.Duration = Full
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
}
