package telemetry

import (
	"fmt"
	"net/http"

	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Telemetry exposes the application meter and the Prometheus scrape handler.
type Telemetry struct {
	Meter    metric.Meter
	registry *prometheus.Registry
}

// NewTelemetry wires an OpenTelemetry meter to a Prometheus registry.
func NewTelemetry(logger *zap.Logger) (*Telemetry, error) {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter("linkedin-data-formatter")

	logger.Info("telemetry initialized")
	return &Telemetry{
		Meter:    meter,
		registry: registry,
	}, nil
}

// Handler returns the /metrics scrape handler.
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}
