// Package web provides the HTTP API and admin pages for tool submissions,
// review and bulk import.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/aitools/internal/catalog"
	"github.com/JonMunkholm/aitools/internal/config"
	"github.com/JonMunkholm/aitools/internal/core"
	"github.com/JonMunkholm/aitools/internal/logging"
	"github.com/JonMunkholm/aitools/internal/web/middleware"
)

// maxSubmitBody bounds the JSON body of a public submission.
const maxSubmitBody = 64 << 10

// Server is the HTTP server for the tool directory.
type Server struct {
	service *core.Service
	catalog *catalog.Catalog
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
	cache   *responseCache

	limiters []*rateLimiter
}

var _ core.Invalidator = (*Server)(nil)

// NewServer creates a Server. Callers should register it with
// service.SetInvalidator so mutations evict cached responses.
func NewServer(service *core.Service, cat *catalog.Catalog, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		catalog: cat,
		cfg:     cfg,
		router:  chi.NewRouter(),
		cache:   newResponseCache(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(s.newLimiter(s.cfg.Rate.RequestsPerMinute).middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.AdminKeyAuth(&s.cfg.Security))
		r.With(s.cached(core.CacheKeySubmissions)).Get("/submissions", s.handleSubmissionsPage)
	})

	s.router.Route("/api", func(r chi.Router) {
		// Public
		r.With(s.limit(s.cfg.Rate.SubmitLimit)).Post("/submissions", s.handleSubmit)
		r.Get("/import/template", s.handleImportTemplate)
		r.With(s.cached(core.CacheKeyCatalog)).Get("/tools", s.handleListTools)
		r.With(s.cached(core.CacheKeyCatalog)).Get("/categories", s.handleListCategories)

		// Admin
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminKeyAuth(&s.cfg.Security))

			r.With(s.cached(core.CacheKeySubmissions)).Get("/submissions", s.handleListSubmissions)
			r.Get("/submissions/{id}", s.handleGetSubmission)
			r.Post("/submissions/{id}/review", s.handleReview)

			r.Group(func(r chi.Router) {
				r.Use(s.limit(s.cfg.Rate.ImportLimit))
				r.Post("/import", s.handleImport)
				r.Post("/import/preview", s.handleImportPreview)
			})
			r.Get("/import/status", s.handleImportStatus)

			r.Get("/audit-log", s.handleAuditLog)
		})
	})
}

// limit returns a per-route rate limiter, or a no-op when rate limiting is off.
func (s *Server) limit(perMinute int) func(http.Handler) http.Handler {
	if !s.cfg.Rate.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return s.newLimiter(perMinute).middleware
}

func (s *Server) newLimiter(perMinute int) *rateLimiter {
	rl := newRateLimiter(perMinute, time.Minute)
	s.limiters = append(s.limiters, rl)
	return rl
}

// Invalidate evicts cached responses for the given keys.
func (s *Server) Invalidate(ctx context.Context, keys ...string) {
	n := s.cache.invalidate(keys...)
	logging.FromContext(ctx).Debug("cache invalidated", "keys", keys, "entries", n)
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and its background sweepers.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, rl := range s.limiters {
		rl.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				// htmx is loaded from unpkg; inline styles only.
				w.Header().Set("Content-Security-Policy",
					"default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v with the given status.
// Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
