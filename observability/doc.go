// Package observability provides OpenTelemetry tracing and metrics for the
// service layer.
//
// The telemetry component installs OTLP/HTTP exporters when enabled:
//
//	app.RegisterComponent(observability.NewComponent(cfg.Telemetry, observability.Identity{Service: name}, log))
//
// Operations are wrapped in a span and recorded as metrics:
//
//	metrics, err := observability.NewMetrics(observability.Meter("userauth"))
//	ctx, op := observability.StartOperation(ctx, "user", "login", metrics)
//	defer func() { op.End(ctx, err) }()
package observability
