package core

import "sort"

// PersonStats is the per-person summary derived from a record set. Counts
// tally whole records; day totals weight each record by its duration's
// day-equivalent.
type PersonStats struct {
	Name          string  `json:"name"`
	OvertimeCount int     `json:"overtime_count"`
	LeaveCount    int     `json:"leave_count"`
	OvertimeDays  float64 `json:"overtime_days"`
	LeaveDays     float64 `json:"leave_days"`
}

// Summarize recomputes per-person statistics from scratch over the given
// records. Only the Type, Year and Month predicates of f apply; Date and
// Name are ignored here. Output is sorted by name.
func Summarize(records []Record, f Filter) []PersonStats {
	statsFilter := Filter{Type: f.Type, Year: f.Year, Month: f.Month}

	byName := make(map[string]*PersonStats)
	for _, r := range records {
		if !statsFilter.Matches(r) {
			continue
		}
		days := r.Duration.Days()
		for _, name := range r.Names {
			ps, ok := byName[name]
			if !ok {
				ps = &PersonStats{Name: name}
				byName[name] = ps
			}
			switch r.Type {
			case Overtime:
				ps.OvertimeCount++
				ps.OvertimeDays += days
			case Leave:
				ps.LeaveCount++
				ps.LeaveDays += days
			}
		}
	}

	out := make([]PersonStats, 0, len(byName))
	for _, ps := range byName {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Years returns the distinct years present in the record set, most recent
// first. Used to populate filter facets.
func Years(records []Record) []string {
	return facets(records, func(r Record) string { return r.Date.YearString() })
}

// Months returns the distinct year-month prefixes, most recent first. A
// non-empty year restricts the result to that year.
func Months(records []Record, year string) []string {
	return facets(records, func(r Record) string {
		if year != "" && r.Date.YearString() != year {
			return ""
		}
		return r.Date.YearMonth()
	})
}

func facets(records []Record, key func(Record) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}
