package pki

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

// CASigner signs certificate templates to create certificates.
// Implementations include MemorySigner (throwaway CAs for tests) and FileSigner (CA on disk).
type CASigner interface {
	// SignCertificate signs a certificate template and returns the DER-encoded certificate bytes.
	// The template must be fully populated (subject, validity, key usage, PublicKey).
	SignCertificate(template *x509.Certificate) ([]byte, error)

	// GetCACertificate returns the CA certificate (public key only).
	GetCACertificate() (*x509.Certificate, error)
}

// caPair is an ECDSA CA key with its certificate; both signers sign through it.
type caPair struct {
	key  *ecdsa.PrivateKey
	cert *x509.Certificate
}

func (p caPair) SignCertificate(template *x509.Certificate) ([]byte, error) {
	return x509.CreateCertificate(rand.Reader, template, p.cert, template.PublicKey, p.key)
}

func (p caPair) GetCACertificate() (*x509.Certificate, error) {
	return p.cert, nil
}

// ParseCA decodes a PEM CA certificate and its PEM ECDSA private key
// (SEC 1 or PKCS#8) and checks that they belong together.
func ParseCA(certPEM, keyPEM []byte) (*x509.Certificate, *ecdsa.PrivateKey, error) {
	certBlock, _ := pem.Decode(certPEM)
	if certBlock == nil {
		return nil, nil, errors.New("failed to decode CA cert PEM")
	}

	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CA certificate: %w", err)
	}

	keyBlock, _ := pem.Decode(keyPEM)
	if keyBlock == nil {
		return nil, nil, errors.New("failed to decode CA key PEM")
	}

	key, err := parseECPrivateKey(keyBlock.Bytes)
	if err != nil {
		return nil, nil, err
	}

	pub, ok := cert.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, nil, errors.New("CA certificate public key is not ECDSA")
	}
	if !key.PublicKey.Equal(pub) {
		return nil, nil, errors.New("CA key and certificate do not match")
	}

	return cert, key, nil
}

func parseECPrivateKey(der []byte) (*ecdsa.PrivateKey, error) {
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CA private key: %w", err)
	}

	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, errors.New("CA private key is not ECDSA")
	}
	return key, nil
}
