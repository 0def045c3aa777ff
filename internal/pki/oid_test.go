package pki

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"testing"

	"github.com/stretchr/testify/require"
)

var oidOrganization = asn1.ObjectIdentifier{2, 5, 4, 10}

func certWithSubjectNames(names ...pkix.AttributeTypeAndValue) *x509.Certificate {
	return &x509.Certificate{
		Subject: pkix.Name{Names: names},
	}
}

func TestCommonNames(t *testing.T) {
	t.Run("single common name", func(t *testing.T) {
		cert := certWithSubjectNames(pkix.AttributeTypeAndValue{Type: OIDCommonName, Value: "client1"})

		names, err := CommonNames(cert)
		require.NoError(t, err)
		require.Equal(t, []string{"client1"}, names)
	})

	t.Run("keeps subject order and skips other attributes", func(t *testing.T) {
		cert := certWithSubjectNames(
			pkix.AttributeTypeAndValue{Type: oidOrganization, Value: "osquery"},
			pkix.AttributeTypeAndValue{Type: OIDCommonName, Value: "first"},
			pkix.AttributeTypeAndValue{Type: OIDCommonName, Value: "second"},
		)

		names, err := CommonNames(cert)
		require.NoError(t, err)
		require.Equal(t, []string{"first", "second"}, names)
	})

	t.Run("no common name", func(t *testing.T) {
		cert := certWithSubjectNames(pkix.AttributeTypeAndValue{Type: oidOrganization, Value: "osquery"})

		names, err := CommonNames(cert)
		require.NoError(t, err)
		require.Empty(t, names)
	})

	t.Run("nil certificate returns error", func(t *testing.T) {
		_, err := CommonNames(nil)
		require.ErrorIs(t, err, ErrNoCertificate)
	})
}

func TestHasCommonName(t *testing.T) {
	tests := []struct {
		name     string
		cert     *x509.Certificate
		cn       string
		expected bool
	}{
		{
			name:     "exact match",
			cert:     certWithSubjectNames(pkix.AttributeTypeAndValue{Type: OIDCommonName, Value: "client1"}),
			cn:       "client1",
			expected: true,
		},
		{
			name:     "different name",
			cert:     certWithSubjectNames(pkix.AttributeTypeAndValue{Type: OIDCommonName, Value: "client2"}),
			cn:       "client1",
			expected: false,
		},
		{
			name:     "case differs",
			cert:     certWithSubjectNames(pkix.AttributeTypeAndValue{Type: OIDCommonName, Value: "alice"}),
			cn:       "Alice",
			expected: false,
		},
		{
			name:     "prefix is not a match",
			cert:     certWithSubjectNames(pkix.AttributeTypeAndValue{Type: OIDCommonName, Value: "client10"}),
			cn:       "client1",
			expected: false,
		},
		{
			name:     "wildcard is literal",
			cert:     certWithSubjectNames(pkix.AttributeTypeAndValue{Type: OIDCommonName, Value: "*.example.com"}),
			cn:       "host.example.com",
			expected: false,
		},
		{
			name: "value under another attribute does not count",
			cert: certWithSubjectNames(
				pkix.AttributeTypeAndValue{Type: oidOrganization, Value: "client1"},
				pkix.AttributeTypeAndValue{Type: OIDCommonName, Value: "other"},
			),
			cn:       "client1",
			expected: false,
		},
		{
			name: "any common name in the subject may match",
			cert: certWithSubjectNames(
				pkix.AttributeTypeAndValue{Type: OIDCommonName, Value: "other"},
				pkix.AttributeTypeAndValue{Type: OIDCommonName, Value: "client1"},
			),
			cn:       "client1",
			expected: true,
		},
		{
			name: "SAN is ignored",
			cert: &x509.Certificate{
				Subject:  pkix.Name{Names: []pkix.AttributeTypeAndValue{{Type: OIDCommonName, Value: "other"}}},
				DNSNames: []string{"client1"},
			},
			cn:       "client1",
			expected: false,
		},
		{
			name:     "empty subject",
			cert:     &x509.Certificate{},
			cn:       "",
			expected: false,
		},
		{
			name:     "nil certificate",
			cert:     nil,
			cn:       "client1",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, HasCommonName(tt.cert, tt.cn))
		})
	}
}
