package http

import (
	"log/slog"
	"net/http"

	"worklog/internal/core"
	applog "worklog/internal/log"
)

// FacetsResponse lists the years and year-month prefixes present in the
// record set, for populating filter pickers.
type FacetsResponse struct {
	Years  []string `json:"years"`
	Months []string `json:"months"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	// Statistics only honor type, year and month.
	f.Date, f.Name = "", ""

	key := "stats:" + string(f.Type) + ":" + f.Year + ":" + f.Month
	if stats, ok := s.statsCache.Get(key); ok {
		writeJSON(w, http.StatusOK, stats)
		return
	}

	list, err := s.backend.ListRecords(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list records for stats", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "could not compute statistics")
		return
	}

	stats := core.Summarize(list, f)
	s.statsCache.Set(key, stats)
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	list, err := s.backend.ListRecords(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list records for facets", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "could not derive facets")
		return
	}

	year := r.URL.Query().Get("year")
	writeJSON(w, http.StatusOK, FacetsResponse{
		Years:  core.Years(list),
		Months: core.Months(list, year),
	})
}
