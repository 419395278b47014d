package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"worklog/internal/core"
	applog "worklog/internal/log"
	"worklog/internal/records"
)

const maxBodyBytes = 1 << 16 // 64KB, plenty for a record draft

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	list, err := s.backend.ListRecords(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list records", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "could not list records")
		return
	}

	f := filterFromQuery(r)
	writeJSON(w, http.StatusOK, core.FilterRecords(list, f))
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	var draft core.Draft
	if err := json.Unmarshal(body, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid record payload")
		return
	}

	if err := draft.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	rec, err := s.backend.CreateRecord(r.Context(), draft)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create record",
			applog.FieldError, err,
			applog.FieldNames, draft.Names,
			applog.FieldRecordDate, draft.Date.String())
		writeError(w, http.StatusInternalServerError, "could not create record")
		return
	}

	s.statsCache.Purge()
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	err = s.backend.DeleteRecord(r.Context(), id)
	switch {
	case errors.Is(err, records.ErrNotFound):
		writeError(w, http.StatusNotFound, "record not found")
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Failed to delete record", applog.FieldError, err, applog.FieldRecordID, id)
		writeError(w, http.StatusInternalServerError, "could not delete record")
		return
	}

	s.statsCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

func filterFromQuery(r *http.Request) core.Filter {
	q := r.URL.Query()
	return core.Filter{
		Date:  q.Get("date"),
		Type:  core.EventType(q.Get("type")),
		Year:  q.Get("year"),
		Month: q.Get("month"),
		Name:  q.Get("name"),
	}
}
