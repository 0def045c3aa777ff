package pki

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"errors"
	"fmt"
)

// OIDCommonName identifies the X.520 commonName subject attribute (2.5.4.3).
var OIDCommonName = asn1.ObjectIdentifier{2, 5, 4, 3}

// ErrNoCertificate is returned when a nil certificate is inspected
var ErrNoCertificate = errors.New("no certificate")

// SubjectAttributes returns the subject attribute/value pairs in the order
// they appear in the certificate's RDN sequence.
func SubjectAttributes(cert *x509.Certificate) ([]pkix.AttributeTypeAndValue, error) {
	if cert == nil {
		return nil, ErrNoCertificate
	}
	return cert.Subject.Names, nil
}

// CommonNames returns every commonName value in the subject, in order.
// Values that are not strings are rendered with %v.
func CommonNames(cert *x509.Certificate) ([]string, error) {
	attrs, err := SubjectAttributes(cert)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, atv := range attrs {
		if !atv.Type.Equal(OIDCommonName) {
			continue
		}
		if s, ok := atv.Value.(string); ok {
			names = append(names, s)
			continue
		}
		names = append(names, fmt.Sprintf("%v", atv.Value))
	}
	return names, nil
}

// HasCommonName reports whether the subject carries a commonName attribute
// exactly equal to cn. Matching is case-sensitive with no wildcard or SAN
// handling.
func HasCommonName(cert *x509.Certificate, cn string) bool {
	attrs, err := SubjectAttributes(cert)
	if err != nil {
		return false
	}

	for _, atv := range attrs {
		if !atv.Type.Equal(OIDCommonName) {
			continue
		}
		if s, ok := atv.Value.(string); ok && s == cn {
			return true
		}
	}
	return false
}
