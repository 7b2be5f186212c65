// Package server assembles the OAuth facade, the MCP tool layer, and the
// notification client into one HTTP service.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Seann-Moser/notify-mcp/config"
	"github.com/Seann-Moser/notify-mcp/mcpserver"
	"github.com/Seann-Moser/notify-mcp/notify"
	"github.com/Seann-Moser/notify-mcp/oauth/oserver"
)

// Server is the assembled HTTP service.
type Server struct {
	cfg        *config.Config
	store      *oserver.MemoryStore
	httpServer *http.Server
	logger     *slog.Logger
}

// New wires the store, OAuth handlers, notification client, and MCP tools
// onto a chi router.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	store := oserver.NewMemoryStoreWithInterval(cfg.SweepInterval.Duration())
	store.SetLogger(logger)

	oauthHandler := oserver.NewHandler(store, cfg.Issuer, cfg.UpstreamTokenURL, logger)
	notifyClient := notify.NewClient(cfg.NotifyAPIBaseURL, cfg.ServiceToken, nil)
	notifyClient.SetLogger(logger)
	mcp := mcpserver.NewServer(notifyClient, logger)

	r := chi.NewRouter()
	r.Use(requestLogger(logger))

	// OAuth facade endpoints
	r.Post("/register", oauthHandler.RegisterClient)
	r.Post("/authorize/callback", oauthHandler.AuthorizeCallback)
	r.Post("/token", oauthHandler.Token)
	r.Get("/.well-known/oauth-authorization-server", oauthHandler.Metadata)

	// MCP endpoint behind the access-token gate
	r.Handle("/mcp", oauthHandler.ValidateToken(mcp.HTTPHandler()))

	return &Server{
		cfg:   cfg,
		store: store,
		httpServer: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the HTTP server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.ListenAddr, "issuer", s.cfg.Issuer)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Stop()
	}
}

// Stop shuts the HTTP server down gracefully and releases the store.
func (s *Server) Stop() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	return err
}
