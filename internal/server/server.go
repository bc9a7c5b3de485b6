// Package server exposes the progress, discovery and catalog services over
// HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/questmap/internal/app"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP front end of an App.
type Server struct {
	Engine *gin.Engine
	app    *app.App
}

// New builds the router for a wired App.
func New(a *app.App) *Server {
	return &Server{
		Engine: NewRouter(Deps{
			Progress:    a.Progress,
			Catalog:     a.Catalog,
			HealthCheck: a.HealthCheck,
			Log:         a.Log,
			CORSOrigins: a.Config.Server.CORSOrigins,
		}),
		app: a,
	}
}

// Run serves on addr until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.app.Log.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	s.app.Log.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
