package echo

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/mtlsecho/internal/certs"
	"github.com/wolfeidau/mtlsecho/internal/telemetry"
)

const (
	// DefaultAddr is the fixed loopback address the server binds
	DefaultAddr = "localhost:5000"
	// MaxEchoSize is the most bytes read, and echoed, by the single read
	MaxEchoSize = 1024
)

// Config is populated once from the command line and never mutated.
// Presence of the fields is not checked; unset paths fail while loading
// the TLS material.
type Config struct {
	CertPath           string
	KeyPath            string
	CAPath             string
	ExpectedCommonName string
}

// Server accepts a single mTLS connection and echoes one buffer back
type Server struct {
	tlsConfig  *tls.Config
	expectedCN string
	log        zerolog.Logger
	metrics    *telemetry.Metrics
}

// Option configures a Server built by NewServer or Run.
type Option func(*Server)

// WithLogger sets the logger; sessions derive a child carrying conn_id and
// remote_addr. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithMetrics records server counters on m instead of the instruments from
// the global meter provider.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer loads the server certificate, key and CA bundle named by cfg.
func NewServer(cfg Config, opts ...Option) (*Server, error) {
	tlsConfig, err := certs.LoadServerTLSConfig(certs.Config{
		CACertPath:     cfg.CAPath,
		ServerCertPath: cfg.CertPath,
		ServerKeyPath:  cfg.KeyPath,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	s := &Server{
		tlsConfig:  tlsConfig,
		expectedCN: cfg.ExpectedCommonName,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = telemetry.GetMetrics()
	}

	return s, nil
}

// Run binds DefaultAddr, serves exactly one client and returns. The TLS
// material is loaded before binding, so a bad path fails without waiting
// for a client.
func Run(ctx context.Context, cfg Config, opts ...Option) error {
	s, err := NewServer(cfg, opts...)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", DefaultAddr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrListen, err)
	}

	s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")

	return s.Serve(ctx, ln)
}

// Serve accepts one connection from ln, performs the server side of the TLS
// handshake, verifies the client common name and echoes a single read.
// The secure channel is closed before ln, and both are closed on every return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer func() {
		if err := ln.Close(); err != nil {
			s.log.Warn().Err(err).Msg("failed to close listener")
		}
	}()

	raw, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("%w: accept: %w", ErrListen, err)
	}

	s.metrics.ConnectionsAccepted.Add(ctx, 1)

	log := s.log.With().
		Str("conn_id", uuid.NewString()).
		Str("remote_addr", raw.RemoteAddr().String()).
		Logger()

	log.Info().Msg("accepted connection")

	conn := tls.Server(raw, s.tlsConfig)
	defer func() {
		if err := conn.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close secure channel")
		}
	}()

	if err := conn.HandshakeContext(ctx); err != nil {
		s.metrics.HandshakeErrors.Add(ctx, 1)
		log.Error().Err(err).Msg("tls handshake failed")
		return fmt.Errorf("%w: %w", ErrHandshake, err)
	}

	state := conn.ConnectionState()
	log.Info().
		Str("version", tls.VersionName(state.Version)).
		Str("cipher", tls.CipherSuiteName(state.CipherSuite)).
		Func(func(e *zerolog.Event) {
			if len(state.PeerCertificates) > 0 {
				e.Str("peer_subject", state.PeerCertificates[0].Subject.String())
			}
		}).
		Msg("handshake complete")

	if err := VerifyPeer(state.PeerCertificates, s.expectedCN); err != nil {
		s.metrics.VerificationFailures.Add(ctx, 1)
		log.Error().Err(err).Msg("client certificate rejected")
		return err
	}

	n, err := s.echo(conn)
	s.metrics.EchoBytes.Add(ctx, int64(n))
	if err != nil {
		return err
	}

	log.Info().Int("bytes", n).Msg("echo complete")

	return nil
}

// echo performs one read of up to MaxEchoSize bytes and writes back exactly
// what was read. A clean EOF before any data is an empty echo.
func (s *Server) echo(conn io.ReadWriter) (int, error) {
	buf := make([]byte, MaxEchoSize)

	n, readErr := conn.Read(buf)
	if n > 0 {
		if _, err := conn.Write(buf[:n]); err != nil {
			return 0, fmt.Errorf("%w: write: %w", ErrIO, err)
		}
	}

	if readErr != nil && !errors.Is(readErr, io.EOF) {
		return n, fmt.Errorf("%w: read: %w", ErrIO, readErr)
	}

	return n, nil
}
