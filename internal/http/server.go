// Package http exposes the ledger over a JSON API: entry CRUD, category
// listing and the statistics endpoints backed by the reports service.
package http

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"ledger/internal/cache"
	"ledger/internal/core"
	"ledger/internal/middleware/ratelimit"
	"ledger/internal/middleware/trace"
	"ledger/internal/reports"
	"ledger/internal/stats"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// EntryWriter is the write surface the handlers need; satisfied by
// services.EntryService.
type EntryWriter interface {
	CreateEntry(ctx context.Context, e core.Entry) (core.Entry, error)
	DeleteEntry(ctx context.Context, id int64) error
}

// CategoryStore serves category lookups; satisfied by both stores.
type CategoryStore interface {
	ListCategories(ctx context.Context, kind core.EntryType) ([]core.Category, error)
	GetCategory(ctx context.Context, id int64) (core.Category, error)
}

type Server struct {
	http.Server

	entries    EntryWriter
	source     reports.EntrySource
	categories CategoryStore
	reports    *reports.Service

	limiter *ratelimit.Limiter
	tracer  *trace.Middleware

	// Read-side caches, purged wholesale on entry writes.
	trendsCache  *cache.LRU[[]stats.TrendPoint]
	summaryCache *cache.LRU[summaryResponse]
}

func NewServer(addr string, entries EntryWriter, source reports.EntrySource, categories CategoryStore, rep *reports.Service, rl ratelimit.Config) *Server {
	s := &Server{
		entries:      entries,
		source:       source,
		categories:   categories,
		reports:      rep,
		limiter:      ratelimit.NewLimiter(rl),
		tracer:       trace.NewMiddleware(clientIP),
		trendsCache:  cache.NewLRU[[]stats.TrendPoint](4, 5*time.Minute),
		summaryCache: cache.NewLRU[summaryResponse](64, time.Minute),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/entries", s.handleEntries)
	mux.HandleFunc("/api/entries/", s.handleEntryByID)
	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/stats/categories", s.handleStatsCategories)
	mux.HandleFunc("/api/stats/daily", s.handleStatsDaily)
	mux.HandleFunc("/api/stats/trends", s.handleStatsTrends)
	mux.HandleFunc("/api/stats/comparison", s.handleStatsComparison)

	s.Server = http.Server{
		Addr:    addr,
		Handler: s.tracer.Middleware(s.rateLimit(mux)),
	}

	return s
}

// Close stops the rate limiter's cleanup goroutine alongside the listener.
func (s *Server) Close() error {
	s.limiter.Stop()
	return s.Server.Close()
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// invalidateReadCaches drops memoized aggregates after a write.
func (s *Server) invalidateReadCaches() {
	s.trendsCache.Purge()
	s.summaryCache.Purge()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// clientIP extracts the caller address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.Index(fwd, ","); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
