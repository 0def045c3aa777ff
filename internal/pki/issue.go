package pki

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

const defaultLeafValidity = time.Hour

// Usage selects the extended key usage of an issued leaf certificate
type Usage int

const (
	UsageClient Usage = iota
	UsageServer
)

// IssueRequest describes a leaf certificate to mint
type IssueRequest struct {
	// CommonName is encoded first in the subject; empty omits it.
	CommonName string
	// ExtraNames follow CommonName in the subject, in order. A commonName
	// here is added alongside CommonName rather than replacing it.
	ExtraNames  []pkix.AttributeTypeAndValue
	DNSNames    []string
	IPAddresses []net.IP
	Usage       Usage
	// Validity defaults to one hour.
	Validity time.Duration
}

// IssuedCertificate is a signed leaf with its private key
type IssuedCertificate struct {
	Certificate *x509.Certificate
	CertPEM     []byte
	KeyPEM      []byte
}

// IssueCertificate generates an ECDSA P-256 key and has signer sign a leaf for it.
func IssueCertificate(signer CASigner, req IssueRequest) (*IssuedCertificate, error) {
	if signer == nil {
		return nil, errors.New("signer is required")
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	serial, err := newSerialNumber()
	if err != nil {
		return nil, err
	}

	validity := req.Validity
	if validity <= 0 {
		validity = defaultLeafValidity
	}

	extKeyUsage := x509.ExtKeyUsageClientAuth
	if req.Usage == UsageServer {
		extKeyUsage = x509.ExtKeyUsageServerAuth
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject:      subjectName(req),
		NotBefore:    now.Add(-time.Minute),
		NotAfter:     now.Add(validity),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{extKeyUsage},
		DNSNames:     req.DNSNames,
		IPAddresses:  req.IPAddresses,
		PublicKey:    &key.PublicKey,
	}

	der, err := signer.SignCertificate(template)
	if err != nil {
		return nil, fmt.Errorf("failed to sign certificate: %w", err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse issued certificate: %w", err)
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key: %w", err)
	}

	return &IssuedCertificate{
		Certificate: cert,
		CertPEM:     pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
		KeyPEM:      pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}),
	}, nil
}

// subjectName lays out the subject entirely through ExtraNames, since
// pkix.Name drops its CommonName field when ExtraNames carries the same OID.
func subjectName(req IssueRequest) pkix.Name {
	var names []pkix.AttributeTypeAndValue
	if req.CommonName != "" {
		names = append(names, pkix.AttributeTypeAndValue{Type: OIDCommonName, Value: req.CommonName})
	}
	names = append(names, req.ExtraNames...)
	return pkix.Name{ExtraNames: names}
}

// WriteFiles writes <name>.pem and <name>-key.pem into dir and returns their paths.
func (c *IssuedCertificate) WriteFiles(dir, name string) (certPath, keyPath string, err error) {
	certPath = filepath.Join(dir, name+".pem")
	keyPath = filepath.Join(dir, name+"-key.pem")

	if err := os.WriteFile(certPath, c.CertPEM, 0o600); err != nil {
		return "", "", fmt.Errorf("failed to write cert: %w", err)
	}
	if err := os.WriteFile(keyPath, c.KeyPEM, 0o600); err != nil {
		return "", "", fmt.Errorf("failed to write key: %w", err)
	}
	return certPath, keyPath, nil
}
