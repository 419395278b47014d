// Package http implements the worklogd JSON API: the transport surface of
// the durable record backend, plus statistics and facet endpoints derived
// from the same record set.
package http

import (
	"net/http"
	"time"

	"worklog/internal/cache"
	"worklog/internal/core"
	"worklog/internal/middleware/trace"
	"worklog/internal/records"
)

// Server serves the record API over a single backend. Statistics responses
// are cached and the cache is purged on every mutation, so aggregates are
// always recomputed from the current record set.
type Server struct {
	http.Server

	backend    records.Backend
	statsCache *cache.LRUCache[[]core.PersonStats]
}

// NewServer configures routes and middleware, returning a ready-to-run server.
// If mgr is non-nil the stats cache joins its cleanup cycle.
func NewServer(addr string, backend records.Backend, mgr *cache.Manager) *Server {
	s := &Server{
		backend:    backend,
		statsCache: cache.NewLRUCache[[]core.PersonStats](64, 5*time.Minute),
	}
	if mgr != nil {
		mgr.Register(s.statsCache)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	mux.HandleFunc("GET /api/records", s.handleListRecords)
	mux.HandleFunc("POST /api/records", s.handleCreateRecord)
	mux.HandleFunc("DELETE /api/records/{id}", s.handleDeleteRecord)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/facets", s.handleFacets)

	traced := trace.NewMiddleware(extractClientIP)

	s.Server = http.Server{
		Addr:    addr,
		Handler: traced.Middleware(withSecurityHeaders(mux)),
	}
	return s
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
