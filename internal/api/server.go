package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"mimoapp/internal/logging"
)

type Server struct {
	*http.Server
	shutdownTimeout time.Duration
	logger          logging.Logger
}

func NewServer(addr string, handler http.Handler, shutdownTimeout time.Duration, logger logging.Logger) *Server {
	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
		logger:          logger.With("module", "http"),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured timeout, force-closing remaining connections if it expires.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "server listening", "addr", ln.Addr().String())
		serverErrors <- s.Server.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		s.logger.Info(context.Background(), "starting graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := s.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn(context.Background(), "could not gracefully shutdown the server", "error", err)
			if err := s.Close(); err != nil {
				return err
			}
		}
		s.logger.Info(context.Background(), "server gracefully stopped")
		return nil
	}
}
