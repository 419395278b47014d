package core

import "strings"

// Filter is a conjunction of optional predicates over records. A zero-value
// field means the predicate is unset and matches every record.
type Filter struct {
	Date  string    // exact date, YYYY-MM-DD
	Type  EventType // overtime or leave
	Year  string    // year prefix, e.g. "2024"
	Month string    // year-month prefix, e.g. "2024-01"
	Name  string    // case-insensitive substring over any of the record's names
}

// Matches reports whether the record passes every supplied predicate.
func (f Filter) Matches(r Record) bool {
	if f.Date != "" && r.Date.String() != f.Date {
		return false
	}
	if f.Type != "" && r.Type != f.Type {
		return false
	}
	if f.Year != "" && r.Date.YearString() != f.Year {
		return false
	}
	if f.Month != "" && r.Date.YearMonth() != f.Month {
		return false
	}
	if f.Name != "" && !matchesName(r.Names, f.Name) {
		return false
	}
	return true
}

func matchesName(names []string, query string) bool {
	q := strings.ToLower(query)
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), q) {
			return true
		}
	}
	return false
}

// FilterRecords returns the records matching f, preserving input order.
func FilterRecords(records []Record, f Filter) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
