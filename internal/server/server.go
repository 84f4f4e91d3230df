package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/tapgame/backend/internal/auth"
	"github.com/tapgame/backend/internal/config"
	"github.com/tapgame/backend/internal/game"
	"github.com/tapgame/backend/internal/http/handlers"
	"github.com/tapgame/backend/internal/middleware"
	"github.com/tapgame/backend/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// Handler assembles the full route tree and middleware chain. Split out
// from New so tests can drive the API without binding a port.
func Handler(cfg config.Config, store storage.Store, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	handlers.NewHealthHandler(time.Now()).Register(mux)

	svc := game.New(store)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)
	gate := auth.NewGate(cfg.AdminPassword, cfg.AdminPasswordHash, tokens)

	handlers.NewPlayerHandler(svc, logger).Register(mux)
	handlers.NewAdminHandler(svc, gate, logger).Register(mux)

	return middleware.Recovery(logger,
		middleware.RequestID(
			middleware.Logging(logger,
				middleware.CORS(cfg.CORSOrigins, mux))))
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, logger *slog.Logger) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Handler(cfg, store, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
