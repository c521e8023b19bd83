package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instrument names.
const (
	MetricOperations         = "account.operations"
	MetricOperationDuration  = "account.operation.duration"
	MetricErrors             = "account.errors"
	MetricAuthEvents         = "account.auth.events"
	MetricBreakerTransitions = "account.store.breaker.transitions"
)

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the account service's instruments.
type Metrics struct {
	operations  metric.Int64Counter
	duration    metric.Float64Histogram
	errors      metric.Int64Counter
	authEvents  metric.Int64Counter
	transitions metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var errs []error
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		errs = append(errs, err)
		return c
	}

	m := &Metrics{
		operations:  counter(MetricOperations, "Account operations by outcome"),
		errors:      counter(MetricErrors, "Failed account operations by error code"),
		authEvents:  counter(MetricAuthEvents, "Registrations and login attempts by outcome"),
		transitions: counter(MetricBreakerTransitions, "Store circuit breaker state changes"),
	}
	var err error
	m.duration, err = meter.Float64Histogram(MetricOperationDuration,
		metric.WithDescription("Account operation latency"),
		metric.WithUnit("s"),
	)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordOperation records one finished operation.
func (m *Metrics) RecordOperation(ctx context.Context, service, operation, status string, took time.Duration) {
	m.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	m.duration.Record(ctx, took.Seconds(), metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("operation", operation),
	))
}

// RecordError counts a failed operation by error code.
func (m *Metrics) RecordError(ctx context.Context, code, service string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("service", service),
	))
}

// RecordAuthEvent counts an authentication event, e.g. ("login", "invalid_credentials").
func (m *Metrics) RecordAuthEvent(ctx context.Context, event, outcome string) {
	m.authEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", event),
		attribute.String("outcome", outcome),
	))
}

// RecordBreakerTransition counts a store circuit breaker state change.
func (m *Metrics) RecordBreakerTransition(ctx context.Context, store, from, to string) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("store", store),
		attribute.String("from", from),
		attribute.String("to", to),
	))
}
