// Package server exposes the headless HTTP + WebSocket API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spindeck/roulettebot/internal/domain"
	"github.com/spindeck/roulettebot/internal/server/handler"
	"github.com/spindeck/roulettebot/internal/server/middleware"
	"github.com/spindeck/roulettebot/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // empty disables authentication

	// RateLimitPerMinute applies per-client throttling; zero disables it.
	RateLimitPerMinute int
}

// Handlers aggregates the HTTP handlers the server registers.
type Handlers struct {
	Health      *handler.HealthHandler
	Methods     *handler.MethodHandler
	Sessions    *handler.SessionHandler
	Simulations *handler.SimulationHandler
}

// Server is the headless HTTP + WebSocket API server.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer registers all routes on a ServeMux and wires the middleware chain
// (rate limiting, auth, logging, CORS). The limiter may be nil when rate
// limiting is disabled.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check (no auth required).
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Method catalogue.
	mux.HandleFunc("GET /api/methods", handlers.Methods.ListMethods)
	mux.HandleFunc("POST /api/methods/{name}/validate", handlers.Methods.ValidateConfig)

	// Session lifecycle.
	mux.HandleFunc("POST /api/sessions", handlers.Sessions.CreateSession)
	mux.HandleFunc("GET /api/sessions", handlers.Sessions.ListSessions)
	mux.HandleFunc("GET /api/sessions/active", handlers.Sessions.ListActiveSessions)
	mux.HandleFunc("GET /api/sessions/{id}", handlers.Sessions.GetSession)
	mux.HandleFunc("POST /api/sessions/{id}/pause", handlers.Sessions.PauseSession)
	mux.HandleFunc("POST /api/sessions/{id}/resume", handlers.Sessions.ResumeSession)
	mux.HandleFunc("POST /api/sessions/{id}/end", handlers.Sessions.EndSession)
	mux.HandleFunc("POST /api/sessions/{id}/cancel", handlers.Sessions.CancelSession)

	// Play.
	mux.HandleFunc("POST /api/sessions/{id}/next-bet", handlers.Sessions.NextBet)
	mux.HandleFunc("POST /api/sessions/{id}/bets", handlers.Sessions.PlaceBet)
	mux.HandleFunc("GET /api/sessions/{id}/bets", handlers.Sessions.ListBets)
	mux.HandleFunc("GET /api/sessions/{id}/summary", handlers.Sessions.GetSummary)

	// Audit trail.
	mux.HandleFunc("GET /api/audit", handlers.Sessions.ListAuditEntries)

	// Offline simulation.
	mux.HandleFunc("POST /api/simulations", handlers.Simulations.RunSimulation)

	// WebSocket endpoint.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	var h http.Handler = mux

	if limiter != nil && cfg.RateLimitPerMinute > 0 {
		h = middleware.RateLimit(limiter, cfg.RateLimitPerMinute, time.Minute)(h)
	}
	h = middleware.Auth(cfg.APIKey)(h)
	h = middleware.Logging(logger)(h)
	h = corsMiddleware(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server errors
// or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests within
// the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// corsMiddleware sets CORS headers for the allowed origins; an empty list
// allows all origins.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" {
				allowed := len(allowedOrigins) == 0
				for _, o := range allowedOrigins {
					if strings.EqualFold(o, "*") || strings.EqualFold(o, origin) {
						allowed = true
						break
					}
				}

				if allowed {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")
					w.Header().Set("Access-Control-Max-Age", "86400")
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
