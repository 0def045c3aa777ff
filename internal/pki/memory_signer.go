package pki

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"
)

const defaultCAValidity = 24 * time.Hour

// MemorySigner implements CASigner with a self-signed ECDSA P-256 CA held in memory.
// It is meant for minting throwaway identities, mainly in tests.
type MemorySigner struct {
	caPair
}

// NewMemorySigner generates a new self-signed CA with the given common name.
func NewMemorySigner(commonName string) (*MemorySigner, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CA key: %w", err)
	}

	serial, err := newSerialNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: commonName},
		NotBefore:             now.Add(-time.Minute),
		NotAfter:              now.Add(defaultCAValidity),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("failed to self-sign CA certificate: %w", err)
	}

	caCert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CA certificate: %w", err)
	}

	return &MemorySigner{caPair{key: key, cert: caCert}}, nil
}

// CertPEM returns the PEM-encoded CA certificate.
func (s *MemorySigner) CertPEM() []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: s.cert.Raw})
}

// KeyPEM returns the PEM-encoded CA private key (SEC 1).
func (s *MemorySigner) KeyPEM() ([]byte, error) {
	der, err := x509.MarshalECPrivateKey(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal CA key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}), nil
}

// WriteFiles writes ca.pem and ca-key.pem into dir and returns their paths.
func (s *MemorySigner) WriteFiles(dir string) (certPath, keyPath string, err error) {
	keyPEM, err := s.KeyPEM()
	if err != nil {
		return "", "", err
	}

	certPath = filepath.Join(dir, "ca.pem")
	keyPath = filepath.Join(dir, "ca-key.pem")

	if err := os.WriteFile(certPath, s.CertPEM(), 0o600); err != nil {
		return "", "", fmt.Errorf("failed to write CA cert: %w", err)
	}
	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		return "", "", fmt.Errorf("failed to write CA key: %w", err)
	}
	return certPath, keyPath, nil
}

func newSerialNumber() (*big.Int, error) {
	limit := new(big.Int).Lsh(big.NewInt(1), 128)
	serial, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to generate serial number: %w", err)
	}
	return serial, nil
}
