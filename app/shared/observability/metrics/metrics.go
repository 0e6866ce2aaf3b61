// Package metrics defines the operation metrics recorded by module services
// together with a Prometheus implementation and a noop for tests.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "greenquest"

// OperationMetrics records the lifecycle of a service operation.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// FeedMetrics records realtime change events.
type FeedMetrics interface {
	RecordEventApplied(ctx context.Context, kind string)
	RecordEventDropped(ctx context.Context, reason string)
}

// Recorder is everything a module records.
type Recorder interface {
	OperationMetrics
	FeedMetrics
}

// Prometheus implements OperationMetrics and FeedMetrics.
type Prometheus struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	applied   *prometheus.CounterVec
	dropped   *prometheus.CounterVec
}

var (
	_ Recorder = (*Prometheus)(nil)
	_ Recorder = (*Noop)(nil)
)

// NewPrometheus registers the module collectors on reg. Registering the same
// subsystem twice reuses the collectors already present.
func NewPrometheus(reg prometheus.Registerer, subsystem string) (*Prometheus, error) {
	p := &Prometheus{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_attempts_total",
			Help:      "Number of service operations started.",
		}, []string{"operation", "service"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_success_total",
			Help:      "Number of service operations that completed.",
		}, []string{"operation", "service"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_failures_total",
			Help:      "Number of service operations that failed with an error.",
		}, []string{"operation", "service"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_duration_seconds",
			Help:      "Duration of service operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "service"}),
		applied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "change_events_applied_total",
			Help:      "Realtime change events applied, by kind.",
		}, []string{"kind"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "change_events_dropped_total",
			Help:      "Realtime change events dropped, by reason.",
		}, []string{"reason"}),
	}

	var err error
	if p.attempts, err = register(reg, p.attempts); err != nil {
		return nil, err
	}
	if p.successes, err = register(reg, p.successes); err != nil {
		return nil, err
	}
	if p.failures, err = register(reg, p.failures); err != nil {
		return nil, err
	}
	if p.duration, err = register(reg, p.duration); err != nil {
		return nil, err
	}
	if p.applied, err = register(reg, p.applied); err != nil {
		return nil, err
	}
	if p.dropped, err = register(reg, p.dropped); err != nil {
		return nil, err
	}
	return p, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (p *Prometheus) RecordOperationAttempt(_ context.Context, operation, service string) {
	p.attempts.WithLabelValues(operation, service).Inc()
}

func (p *Prometheus) RecordOperationSuccess(_ context.Context, operation, service string) {
	p.successes.WithLabelValues(operation, service).Inc()
}

func (p *Prometheus) RecordOperationFailure(_ context.Context, operation, service string) {
	p.failures.WithLabelValues(operation, service).Inc()
}

func (p *Prometheus) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	p.duration.WithLabelValues(operation, service).Observe(duration.Seconds())
}

func (p *Prometheus) RecordEventApplied(_ context.Context, kind string) {
	p.applied.WithLabelValues(kind).Inc()
}

func (p *Prometheus) RecordEventDropped(_ context.Context, reason string) {
	p.dropped.WithLabelValues(reason).Inc()
}

// Noop discards every measurement.
type Noop struct{}

// NewNoop returns metrics that record nothing.
func NewNoop() *Noop { return &Noop{} }

func (*Noop) RecordOperationAttempt(context.Context, string, string)                 {}
func (*Noop) RecordOperationSuccess(context.Context, string, string)                 {}
func (*Noop) RecordOperationFailure(context.Context, string, string)                 {}
func (*Noop) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (*Noop) RecordEventApplied(context.Context, string)                             {}
func (*Noop) RecordEventDropped(context.Context, string)                             {}
