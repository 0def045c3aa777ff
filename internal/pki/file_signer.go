package pki

import (
	"fmt"
	"os"
)

// FileSigner signs with a CA whose certificate and key live on disk, such as
// the ca.pem / ca-key.pem pair written by MemorySigner.WriteFiles.
type FileSigner struct {
	caPair
	CertPath string
	KeyPath  string
}

// NewFileSigner loads the CA key at caKeyPath and the CA certificate at caCertPath.
func NewFileSigner(caKeyPath, caCertPath string) (*FileSigner, error) {
	keyPEM, err := os.ReadFile(caKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA key file: %w", err)
	}

	certPEM, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA cert file: %w", err)
	}

	cert, key, err := ParseCA(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", caCertPath, err)
	}

	return &FileSigner{
		caPair:   caPair{key: key, cert: cert},
		CertPath: caCertPath,
		KeyPath:  caKeyPath,
	}, nil
}
