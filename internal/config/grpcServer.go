package config

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"mimoapp/internal/interceptors"
	"mimoapp/internal/logging"
)

type GRPCServer struct {
	Server          *grpc.Server
	config          GRPCConfig
	shutdownTimeout time.Duration
	logger          logging.Logger
}

// NewGRPCServer builds the internal gRPC server. Mutual TLS is enabled when
// a certificate, key and client CA are all configured; plaintext otherwise.
func NewGRPCServer(cfg GRPCConfig, shutdownTimeout time.Duration, logger logging.Logger) (*GRPCServer, error) {
	logger = logger.With("module", "grpc")

	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			interceptors.LoggingInterceptor(logger),
			interceptors.ErrorInterceptor(logger),
		),
	}

	if cfg.TLSEnabled() {
		creds, err := loadTLSCredentials(cfg)
		if err != nil {
			return nil, fmt.Errorf("load TLS credentials: %w", err)
		}
		opts = append(opts, grpc.Creds(creds))
	}

	return &GRPCServer{
		Server:          grpc.NewServer(opts...),
		config:          cfg,
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
	}, nil
}

// TLSEnabled reports whether any TLS file is configured.
func (c GRPCConfig) TLSEnabled() bool {
	return c.TLSCertFile != "" || c.TLSKeyFile != "" || c.CACertFile != ""
}

func (s *GRPCServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve blocks until ctx is cancelled or the listener fails.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "gRPC server listening", "addr", lis.Addr().String(), "tls", s.config.TLSEnabled())
		serverErrors <- s.Server.Serve(lis)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.GracefulShutdown(s.shutdownTimeout)
		return nil
	}
}

func (s *GRPCServer) GracefulShutdown(timeout time.Duration) {
	stopped := make(chan struct{})
	go func() {
		s.Server.GracefulStop()
		close(stopped)
	}()

	timer := time.NewTimer(timeout)
	select {
	case <-timer.C:
		s.logger.Warn(context.Background(), "forcing gRPC shutdown")
		s.Server.Stop()
	case <-stopped:
		timer.Stop()
		s.logger.Info(context.Background(), "gRPC server stopped gracefully")
	}
}

func loadTLSCredentials(cfg GRPCConfig) (credentials.TransportCredentials, error) {
	serverCert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
	if err != nil {
		return nil, err
	}

	caCert, err := os.ReadFile(cfg.CACertFile)
	if err != nil {
		return nil, err
	}

	certPool := x509.NewCertPool()
	if !certPool.AppendCertsFromPEM(caCert) {
		return nil, errors.New("no CA certificates found in " + cfg.CACertFile)
	}

	config := &tls.Config{
		Certificates: []tls.Certificate{serverCert},
		ClientAuth:   tls.RequireAndVerifyClientCert,
		ClientCAs:    certPool,
		MinVersion:   tls.VersionTLS13,
	}

	return credentials.NewTLS(config), nil
}
