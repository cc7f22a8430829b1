// Package preview serves a generated site tree over HTTP for local review.
package preview

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/lusinstrella/karl-dukstein-photography/internal/fileutil"
	"github.com/lusinstrella/karl-dukstein-photography/internal/logging"
	"github.com/lusinstrella/karl-dukstein-photography/internal/services"
)

const shutdownTimeout = 5 * time.Second

// Server serves the site directory.
type Server struct {
	Echo    *echo.Echo
	siteDir string
	logger  *slog.Logger
}

// New configures an Echo instance serving siteDir. Pages, the manifest, and
// assets are served as static files with index.html at "/".
func New(siteDir string, logger *slog.Logger) (*Server, error) {
	if !fileutil.IsDir(siteDir) {
		return nil, services.Wrap(services.ErrNotFound, "preview", "serve", "site directory missing: "+siteDir, nil)
	}
	logger = logging.NewComponentLogger(logger, "preview")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("request",
				logging.String("method", v.Method),
				logging.String("uri", v.URI),
				logging.Int("status", v.Status),
				logging.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(noCacheMiddleware)
	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root:  siteDir,
		Index: "index.html",
	}))

	return &Server{Echo: e, siteDir: siteDir, logger: logger}, nil
}

// noCacheMiddleware keeps browsers from holding stale pages between rebuilds.
func noCacheMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "no-store")
		return next(c)
	}
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve runs on an existing listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.Echo.Listener = listener
	s.logger.Info("preview server listening",
		logging.String("url", "http://"+listener.Addr().String()+"/"),
		logging.String("site_dir", s.siteDir),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Echo.Start("")
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Echo.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info("preview server stopped")
		return nil
	}
}
