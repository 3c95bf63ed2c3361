/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address for rate limiting
  3. Logger:     Structured request logging (slog)
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests, origins from config
  6. RateLimit:  Token bucket per client address

ROUTE GROUPS:
  /api/resolve/*   Expression resolution
  /api/grains      Discovery
  /api/ops         Discovery
  /api/log         Resolution log
  /api/health      Liveness

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/warp/value-algebra/config"
	"github.com/warp/value-algebra/observability"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, cfg config.Config) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Cors.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	if cfg.RateLimit.RPS > 0 {
		r.Use(NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware)
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/resolve", func(r chi.Router) {
			r.Post("/", h.Resolve)
			r.Post("/batch", h.ResolveBatch)
		})

		r.Get("/grains", h.ListGrains)
		r.Get("/ops", h.ListOps)
		r.Get("/log", h.RecentLog)
		r.Get("/health", h.Health)
	})

	return r
}

// requestLogger logs one line per request once it completes.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.LogAttrs(r.Context(), slog.LevelInfo, "request",
				slog.String(observability.LogFieldRequestID, middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int(observability.LogFieldStatus, ww.Status()),
				slog.Int64(observability.LogFieldDuration, time.Since(start).Milliseconds()),
			)
		})
	}
}
