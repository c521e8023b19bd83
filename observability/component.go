package observability

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/userauth/component"
	"github.com/kbukum/userauth/logger"
)

const componentName = "telemetry"

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component owns the tracer and meter providers.
type Component struct {
	cfg Config
	id  Identity
	log *logger.Logger

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

// NewComponent creates the telemetry component for a service.
func NewComponent(cfg Config, id Identity, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg: cfg,
		id:  id,
		log: log.WithComponent(componentName),
	}
}

// Name returns the component name.
func (c *Component) Name() string { return componentName }

// Start installs the OTLP exporters as the global providers when enabled.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		c.log.Debug("Telemetry export disabled")
		return nil
	}

	tp, err := newTracerProvider(ctx, &c.cfg, c.id)
	if err != nil {
		return fmt.Errorf("telemetry start: %w", err)
	}
	mp, err := newMeterProvider(ctx, &c.cfg, c.id)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return fmt.Errorf("telemetry start: %w", err)
	}
	c.tp, c.mp = tp, mp

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	c.log.Info("Telemetry export started", logger.Fields(
		"endpoint", c.cfg.Endpoint,
		"sample_rate", c.cfg.SampleRate,
		"interval", c.cfg.interval().String(),
	))
	return nil
}

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.mp != nil {
		errs = append(errs, c.mp.Shutdown(ctx))
		c.mp = nil
	}
	if c.tp != nil {
		errs = append(errs, c.tp.Shutdown(ctx))
		c.tp = nil
	}
	return errors.Join(errs...)
}

// Health is always healthy: export failures are retried by the SDK and never
// affect request handling.
func (c *Component) Health(_ context.Context) component.Health {
	msg := "export disabled"
	if c.cfg.Enabled {
		msg = "exporting to " + c.cfg.Endpoint
	}
	return component.Healthy(componentName, "%s", msg)
}

// Describe returns infrastructure summary info for the bootstrap display.
func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = fmt.Sprintf("otlp/http %s sample=%.2f interval=%s", c.cfg.Endpoint, c.cfg.SampleRate, c.cfg.MetricInterval)
	}
	return component.Description{
		Name:    "Telemetry",
		Type:    "telemetry",
		Details: details,
	}
}
