package echo

import (
	"crypto/x509"

	"github.com/wolfeidau/mtlsecho/internal/pki"
)

const (
	reasonNoCertificate = "no peer certificate"
	reasonMismatch      = "common name mismatch"
)

// VerifyPeer checks the leaf of the presented chain for a subject commonName
// exactly equal to expected.
func VerifyPeer(peers []*x509.Certificate, expected string) error {
	if len(peers) == 0 || peers[0] == nil {
		return &VerificationError{Expected: expected, Reason: reasonNoCertificate}
	}

	leaf := peers[0]
	if pki.HasCommonName(leaf, expected) {
		return nil
	}

	presented, _ := pki.CommonNames(leaf)
	return &VerificationError{
		Expected:  expected,
		Presented: presented,
		Reason:    reasonMismatch,
	}
}
