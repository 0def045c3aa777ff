package telemetry

import (
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/mtlsecho"
)

// Metrics holds the OpenTelemetry instruments for an echo session
type Metrics struct {
	ConnectionsAccepted  metric.Int64Counter
	HandshakeErrors      metric.Int64Counter
	VerificationFailures metric.Int64Counter
	EchoBytes            metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance bound to the global meter provider.
// Instruments are noop until a provider is installed with otel.SetMeterProvider.
func GetMetrics() *Metrics {
	once.Do(func() {
		m, err := NewMetrics(otel.GetMeterProvider())
		if err != nil {
			// the global provider only fails on invalid instrument names
			panic(err)
		}
		metrics = m
	})
	return metrics
}

// NewMetrics creates the instruments from the given provider
func NewMetrics(provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(meterName)

	m := &Metrics{}
	var err error

	m.ConnectionsAccepted, err = meter.Int64Counter(
		"mtlsecho.connections.accepted.total",
		metric.WithDescription("Total number of accepted TCP connections"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("connections accepted counter: %w", err)
	}

	m.HandshakeErrors, err = meter.Int64Counter(
		"mtlsecho.handshake.errors.total",
		metric.WithDescription("Total number of failed TLS handshakes"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("handshake errors counter: %w", err)
	}

	m.VerificationFailures, err = meter.Int64Counter(
		"mtlsecho.verification.failures.total",
		metric.WithDescription("Total number of client certificates rejected by the common name check"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, fmt.Errorf("verification failures counter: %w", err)
	}

	m.EchoBytes, err = meter.Int64Counter(
		"mtlsecho.echo.bytes.total",
		metric.WithDescription("Total number of bytes echoed back to clients"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("echo bytes counter: %w", err)
	}

	return m, nil
}
