// Package server wires the banner HTTP stack into a lifecycle-managed server.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nabondance/trailhead-banner-go/internal/application/container"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/logging"
	"github.com/nabondance/trailhead-banner-go/internal/presentation/http/routes"
	"github.com/nabondance/trailhead-banner-go/pkg/config"
)

// Server owns the http.Server and the application container behind it.
type Server struct {
	httpServer *http.Server
	container  *container.Container
	logger     *logging.ChanneledLogger
}

// New builds the banner routes and an http.Server with the configured
// listen address and timeouts. The container's logger is used for
// lifecycle events.
func New(port string, cont *container.Container) *Server {
	router := routes.SetupRoutes(cont)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	return &Server{
		httpServer: httpServer,
		container:  cont,
		logger:     cont.Logger,
	}
}

// Addr returns the listen address the server was built with.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler exposes the composed route handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start blocks serving HTTP requests until the server is stopped.
func (s *Server) Start() error {
	if s.logger != nil {
		s.logger.Startup().Info("HTTP server listening",
			slog.String("addr", s.httpServer.Addr),
			slog.Duration("read_timeout", s.httpServer.ReadTimeout),
			slog.Duration("write_timeout", s.httpServer.WriteTimeout),
		)
	}

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}

	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	if s.logger != nil {
		s.logger.Shutdown().Info("HTTP server draining", slog.String("addr", s.httpServer.Addr))
	}

	err := s.httpServer.Shutdown(ctx)
	if s.logger != nil {
		if err != nil {
			s.logger.Shutdown().Error("HTTP server shutdown incomplete", slog.String("error", err.Error()))
		} else {
			s.logger.Shutdown().Info("HTTP server stopped")
		}
	}
	return err
}
