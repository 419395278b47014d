package core

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-05")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2024-01-05" {
		t.Fatalf("round trip mismatch: %q", d.String())
	}

	bads := []string{"", "2024-13-01", "05/01/2024", "2024-1-5", "not a date"}
	for i, s := range bads {
		if _, err := ParseDate(s); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("case %d expected ErrInvalidDate, got %v", i, err)
		}
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, 2, 10)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-02-10"` {
		t.Fatalf("unexpected JSON: %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.String() != d.String() {
		t.Fatalf("round trip mismatch: %q != %q", back.String(), d.String())
	}
}

func TestDurationDays(t *testing.T) {
	cases := []struct {
		d    Duration
		want float64
	}{
		{Full, 1.0},
		{Morning, 0.5},
		{Afternoon, 0.5},
	}
	for i, tc := range cases {
		if got := tc.d.Days(); got != tc.want {
			t.Fatalf("case %d: got %v, want %v", i, got, tc.want)
		}
	}
}

func TestDraftValidate(t *testing.T) {
	good := Draft{
		Names:    []string{"Alice"},
		Date:     NewDate(2024, 1, 5),
		Type:     Overtime,
		Duration: Full,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		d    Draft
		want error
	}{
		{"no names", Draft{Date: NewDate(2024, 1, 5), Type: Overtime, Duration: Full}, ErrEmptyNames},
		{"blank name", Draft{Names: []string{"  "}, Date: NewDate(2024, 1, 5), Type: Overtime, Duration: Full}, ErrEmptyNames},
		{"zero date", Draft{Names: []string{"A"}, Type: Overtime, Duration: Full}, ErrInvalidDate},
		{"bad type", Draft{Names: []string{"A"}, Date: NewDate(2024, 1, 5), Type: "holiday", Duration: Full}, ErrInvalidType},
		{"bad duration", Draft{Names: []string{"A"}, Date: NewDate(2024, 1, 5), Type: Leave, Duration: "evening"}, ErrInvalidDuration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.d.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseNames(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Alice  Bob\nCarol", []string{"Alice", "Bob", "Carol"}},
		{"   ", nil},
		{"", nil},
		{"\tAlice\t", []string{"Alice"}},
		{"Bob", []string{"Bob"}},
	}
	for i, tc := range cases {
		if got := ParseNames(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("case %d: got %v, want %v", i, got, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	r := Record{ID: 1, Names: []string{"A"}, Date: NewDate(2024, 1, 5), Type: Overtime}
	r.Normalize(now)
	if r.Duration != Full {
		t.Fatalf("missing duration should default to full, got %q", r.Duration)
	}
	if !r.CreatedAt.Equal(now) {
		t.Fatalf("zero created_at should be stamped with now, got %v", r.CreatedAt)
	}

	// Already-set fields are left alone.
	created := time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC)
	r2 := Record{ID: 2, Names: []string{"B"}, Date: NewDate(2023, 6, 1), Type: Leave, Duration: Morning, CreatedAt: created}
	r2.Normalize(now)
	if r2.Duration != Morning || !r2.CreatedAt.Equal(created) {
		t.Fatalf("normalize must not overwrite present fields: %+v", r2)
	}
}
