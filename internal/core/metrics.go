// AngelaMos | 2026
// metrics.go

package core

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics exports OpenTelemetry instruments through a Prometheus registry.
type Metrics struct {
	provider *sdkmetric.MeterProvider
	handler  http.Handler
	requests metric.Int64Counter
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
	events   metric.Int64Counter
}

func NewMetrics(serviceName string) (*Metrics, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(serviceName)

	requests, err := meter.Int64Counter(
		"http_server_requests",
		metric.WithDescription("HTTP requests served"),
	)
	if err != nil {
		return nil, fmt.Errorf("create request counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"http_server_duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	inFlight, err := meter.Int64UpDownCounter(
		"http_server_in_flight",
		metric.WithDescription("HTTP requests currently being served"),
	)
	if err != nil {
		return nil, fmt.Errorf("create in-flight gauge: %w", err)
	}

	events, err := meter.Int64Counter(
		"account_events",
		metric.WithDescription("Account events emitted by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("create event counter: %w", err)
	}

	return &Metrics{
		provider: provider,
		handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requests: requests,
		duration: duration,
		inFlight: inFlight,
		events:   events,
	}, nil
}

func (m *Metrics) Handler() http.Handler {
	return m.handler
}

func (m *Metrics) RequestStarted(ctx context.Context) {
	m.inFlight.Add(ctx, 1)
}

func (m *Metrics) RequestFinished(
	ctx context.Context,
	method, route string,
	status int,
	elapsed time.Duration,
) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	)

	m.inFlight.Add(ctx, -1)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}

func (m *Metrics) EventEmitted(ctx context.Context, eventType string, ok bool) {
	outcome := "published"
	if !ok {
		outcome = "dropped"
	}
	m.events.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", eventType),
		attribute.String("outcome", outcome),
	))
}

func (m *Metrics) Shutdown(ctx context.Context) error {
	if err := m.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown meter provider: %w", err)
	}
	return nil
}
