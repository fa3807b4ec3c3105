package grpc

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

type ClientTLS struct {
	CertFile string
	KeyFile  string
	CAFile   string
}

// Dial opens a client connection to the token service. An empty ClientTLS
// selects plaintext, anything else requires the full mutual TLS triple.
func Dial(addr string, cfg ClientTLS) (*grpc.ClientConn, error) {
	creds, err := clientCredentials(cfg)
	if err != nil {
		return nil, err
	}
	return grpc.NewClient(addr, grpc.WithTransportCredentials(creds))
}

func clientCredentials(cfg ClientTLS) (credentials.TransportCredentials, error) {
	if cfg == (ClientTLS{}) {
		return insecure.NewCredentials(), nil
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, err
	}

	caCert, err := os.ReadFile(cfg.CAFile)
	if err != nil {
		return nil, err
	}

	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caCert) {
		return nil, errors.New("no CA certificates found in " + cfg.CAFile)
	}

	return credentials.NewTLS(&tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      caPool,
		MinVersion:   tls.VersionTLS13,
	}), nil
}
