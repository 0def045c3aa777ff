package certs

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

// ErrNoCACertificates is returned when the CA bundle holds no parseable certificate
var ErrNoCACertificates = errors.New("no CA certificates found in bundle")

// Certificates holds certificate data in memory
type Certificates struct {
	CACert     []byte
	ServerCert []byte
	ServerKey  []byte
}

// Config for loading certificates
type Config struct {
	CACertPath     string
	ServerCertPath string
	ServerKeyPath  string
}

// Load reads the CA bundle, server certificate and server key from disk
func Load(cfg Config) (*Certificates, error) {
	certs := &Certificates{}

	caCert, err := os.ReadFile(cfg.CACertPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA cert: %w", err)
	}
	certs.CACert = caCert

	serverCert, err := os.ReadFile(cfg.ServerCertPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read server cert: %w", err)
	}
	certs.ServerCert = serverCert

	serverKey, err := os.ReadFile(cfg.ServerKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read server key: %w", err)
	}
	certs.ServerKey = serverKey

	return certs, nil
}

// ServerTLSConfig builds a server config that requires and verifies a client
// certificate against the CA bundle. Protocol versions are left at the
// library defaults.
func (c *Certificates) ServerTLSConfig() (*tls.Config, error) {
	cert, err := tls.X509KeyPair(c.ServerCert, c.ServerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load server key pair: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(c.CACert) {
		return nil, ErrNoCACertificates
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientCAs:    pool,
		ClientAuth:   tls.RequireAndVerifyClientCert,
	}, nil
}

// LoadServerTLSConfig loads material from disk and builds the server config
func LoadServerTLSConfig(cfg Config) (*tls.Config, error) {
	certs, err := Load(cfg)
	if err != nil {
		return nil, err
	}
	return certs.ServerTLSConfig()
}
