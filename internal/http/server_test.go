package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"worklog/internal/core"
	"worklog/internal/records"
)

// fakeBackend is an in-memory records.Backend for handler tests.
type fakeBackend struct {
	records   []core.Record
	nextID    int64
	listErr   error
	listCalls int
}

func (f *fakeBackend) ListRecords(_ context.Context) ([]core.Record, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]core.Record, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeBackend) CreateRecord(_ context.Context, draft core.Draft) (core.Record, error) {
	f.nextID++
	rec := core.Record{
		ID:        f.nextID,
		Names:     draft.Names,
		Date:      draft.Date,
		Type:      draft.Type,
		Duration:  draft.Duration,
		CreatedAt: time.Now(),
	}
	f.records = append([]core.Record{rec}, f.records...)
	return rec, nil
}

func (f *fakeBackend) DeleteRecord(_ context.Context, id int64) error {
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return records.ErrNotFound
}

func newTestServer(t *testing.T, backend records.Backend) *Server {
	t.Helper()
	return NewServer(":0", backend, nil)
}

func seedRecords() []core.Record {
	return []core.Record{
		{ID: 2, Names: []string{"Alice"}, Date: core.NewDate(2024, 2, 1), Type: core.Leave, Duration: core.Morning},
		{ID: 1, Names: []string{"Alice", "Bob"}, Date: core.NewDate(2024, 1, 15), Type: core.Overtime, Duration: core.Full},
	}
}

func TestListRecords(t *testing.T) {
	srv := newTestServer(t, &fakeBackend{records: seedRecords(), nextID: 2})

	tests := []struct {
		name    string
		url     string
		wantIDs []int64
	}{
		{"all", "/api/records", []int64{2, 1}},
		{"by type", "/api/records?type=overtime", []int64{1}},
		{"by month", "/api/records?month=2024-02", []int64{2}},
		{"by name", "/api/records?name=bob", []int64{1}},
		{"no match", "/api/records?year=2023", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.url, nil))

			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rr.Code)
			}
			var got []core.Record
			if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d records, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("record[%d].ID = %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestListRecordsBackendError(t *testing.T) {
	srv := newTestServer(t, &fakeBackend{listErr: errors.New("db down")})

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/records", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}

func TestCreateRecord(t *testing.T) {
	backend := &fakeBackend{}
	srv := newTestServer(t, backend)

	body := `{"names":["Alice","Bob"],"date":"2024-03-10","type":"overtime","duration":"afternoon"}`
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/records", strings.NewReader(body)))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	var rec core.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if rec.ID == 0 {
		t.Error("created record has no id")
	}
	if len(backend.records) != 1 {
		t.Fatalf("backend holds %d records, want 1", len(backend.records))
	}
}

func TestCreateRecordValidation(t *testing.T) {
	srv := newTestServer(t, &fakeBackend{})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"empty names", `{"names":[],"date":"2024-03-10","type":"overtime","duration":"full"}`, http.StatusUnprocessableEntity},
		{"bad type", `{"names":["Alice"],"date":"2024-03-10","type":"vacation","duration":"full"}`, http.StatusUnprocessableEntity},
		{"bad duration", `{"names":["Alice"],"date":"2024-03-10","type":"leave","duration":"halfish"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/records", strings.NewReader(tt.body)))
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestDeleteRecord(t *testing.T) {
	backend := &fakeBackend{records: seedRecords(), nextID: 2}
	srv := newTestServer(t, backend)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/records/2", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	if len(backend.records) != 1 {
		t.Fatalf("backend holds %d records, want 1", len(backend.records))
	}

	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/records/2", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rr.Code)
	}

	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/records/abc", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id status = %d, want 400", rr.Code)
	}
}

func TestStats(t *testing.T) {
	srv := newTestServer(t, &fakeBackend{records: seedRecords(), nextID: 2})

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var stats []core.PersonStats
	if err := json.Unmarshal(rr.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d people, want 2", len(stats))
	}
	// Sorted by name: Alice then Bob.
	if stats[0].Name != "Alice" || stats[0].OvertimeDays != 1.0 || stats[0].LeaveDays != 0.5 {
		t.Errorf("alice stats = %+v", stats[0])
	}
	if stats[1].Name != "Bob" || stats[1].OvertimeCount != 1 || stats[1].LeaveCount != 0 {
		t.Errorf("bob stats = %+v", stats[1])
	}
}

func TestStatsCacheInvalidation(t *testing.T) {
	backend := &fakeBackend{records: seedRecords(), nextID: 2}
	srv := newTestServer(t, backend)

	get := func() []core.PersonStats {
		t.Helper()
		rr := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		var stats []core.PersonStats
		if err := json.Unmarshal(rr.Body.Bytes(), &stats); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return stats
	}

	get()
	calls := backend.listCalls
	get()
	if backend.listCalls != calls {
		t.Error("second stats request hit the backend, expected cache")
	}

	body := `{"names":["Carol"],"date":"2024-03-01","type":"leave","duration":"full"}`
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/records", strings.NewReader(body)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", rr.Code)
	}

	stats := get()
	if len(stats) != 3 {
		t.Fatalf("got %d people after create, want 3", len(stats))
	}
}

func TestFacets(t *testing.T) {
	srv := newTestServer(t, &fakeBackend{records: seedRecords(), nextID: 2})

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/facets", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var facets FacetsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &facets); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(facets.Years) != 1 || facets.Years[0] != "2024" {
		t.Errorf("years = %v", facets.Years)
	}
	wantMonths := []string{"2024-02", "2024-01"}
	if len(facets.Months) != 2 || facets.Months[0] != wantMonths[0] || facets.Months[1] != wantMonths[1] {
		t.Errorf("months = %v, want %v", facets.Months, wantMonths)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t, &fakeBackend{})

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}
