// Package api exposes the scoring engine over HTTP. The surface is thin by
// design: handlers decode JSON, call the pure calculation core, persist the
// audit trail, and serialize the core's plain result structs back out.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"launchfast/internal/cache"
	"launchfast/internal/config"
	"launchfast/internal/db"
	"launchfast/internal/logger"
	"launchfast/internal/metrics"
)

// Server wires the calculation engine, result cache, and database behind
// the HTTP API.
type Server struct {
	cfg     *config.Config
	db      *db.DB
	cache   cache.MarketCache
	version string
}

// NewServer creates a Server. cache may be nil to disable market memoization.
func NewServer(cfg *config.Config, database *db.DB, marketCache cache.MarketCache, version string) *Server {
	return &Server{
		cfg:     cfg,
		db:      database,
		cache:   marketCache,
		version: version,
	}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/api/status", s.handleStatus)
	r.Get("/api/healthz", s.handleHealthz)

	r.Post("/api/products/score", s.handleScoreProduct)
	r.Post("/api/products/candidates", s.handleScoreCandidates)
	r.Get("/api/products", s.handleListProducts)
	r.Get("/api/products/{asin}/scores", s.handleScoreHistory)

	r.Post("/api/markets/score", s.handleScoreMarket)
	r.Get("/api/markets/runs", s.handleListMarketRuns)

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}

// requestID attaches a request ID header to every response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// writeJSON serializes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("API", fmt.Sprintf("encode response: %v", err))
	}
}

// writeError sends a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
