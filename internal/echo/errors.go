package echo

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration wraps failures loading the certificate, key or CA bundle
	ErrConfiguration = errors.New("configuration error")
	// ErrListen wraps failures binding or accepting on the listening socket
	ErrListen = errors.New("listen failed")
	// ErrHandshake wraps TLS negotiation failures, including a missing or untrusted client certificate
	ErrHandshake = errors.New("tls handshake failed")
	// ErrVerification is matched by every *VerificationError
	ErrVerification = errors.New("client certificate verification failed")
	// ErrIO wraps read or write failures during the echo
	ErrIO = errors.New("echo i/o failed")
)

// VerificationError is returned when the client presented no certificate or
// its subject has no commonName equal to the expected value.
type VerificationError struct {
	Expected  string
	Presented []string
	Reason    string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s: %s (expected common name %q, presented %q)",
		ErrVerification, e.Reason, e.Expected, e.Presented)
}

func (e *VerificationError) Unwrap() error {
	return ErrVerification
}
