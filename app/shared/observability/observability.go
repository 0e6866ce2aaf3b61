// Package observability bundles the logger, tracer and metrics registry that
// every module receives.
package observability

import (
	"io"
	"log/slog"
	"os"

	"github.com/Black-And-White-Club/green-quest/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/green-quest/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const ServiceName = "green-quest"

// Observability holds the shared observability components.
type Observability struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Registry *prometheus.Registry
}

// New builds the production components. Logs are JSON except in development.
func New(cfg config.ObservabilityConfig) Observability {
	var handler slog.Handler
	if cfg.Environment == "development" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	logger := slog.New(handler).With(
		slog.String("service", ServiceName),
		slog.String("environment", cfg.Environment),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return Observability{
		Logger:   logger,
		Tracer:   otel.Tracer(ServiceName),
		Registry: registry,
	}
}

// NewNoop returns components that discard everything.
func NewNoop() Observability {
	return Observability{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer:   noop.NewTracerProvider().Tracer(ServiceName),
		Registry: nil,
	}
}

// Metrics returns the recorder for a module, or a noop recorder when no
// registry is configured.
func (o Observability) Metrics(subsystem string) (metrics.Recorder, error) {
	if o.Registry == nil {
		return metrics.NewNoop(), nil
	}
	return metrics.NewPrometheus(o.Registry, subsystem)
}
