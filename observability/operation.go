package observability

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/userauth/errors"
	"github.com/kbukum/userauth/logger"
)

// Operation tracks one traced and metered unit of work.
type Operation struct {
	Service string
	Name    string
	start   time.Time
	span    trace.Span
	metrics *Metrics
}

// StartOperation opens a span named "<service>.<name>" tagged with the request
// and user IDs carried by ctx. If metrics is nil, metric recording is skipped.
func StartOperation(ctx context.Context, service, name string, metrics *Metrics) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, service+"."+name)
	span.SetAttributes(
		attribute.String(AttrServiceName, service),
		attribute.String(AttrOperationName, name),
	)
	if id := logger.RequestIDFromContext(ctx); id != "" {
		span.SetAttributes(attribute.String(AttrRequestID, id))
	}
	if id := logger.UserIDFromContext(ctx); id != "" {
		span.SetAttributes(attribute.String(AttrUserID, id))
	}
	return ctx, &Operation{
		Service: service,
		Name:    name,
		start:   time.Now(),
		span:    span,
		metrics: metrics,
	}
}

// End closes the span and records the outcome. Client errors are tagged with
// their code; only server-side failures mark the span as errored.
func (o *Operation) End(ctx context.Context, err error) {
	duration := time.Since(o.start)
	status := "ok"

	if err != nil {
		appErr := apperrors.Wrap(err)
		status = strings.ToLower(string(appErr.Code))
		o.span.SetAttributes(attribute.String(AttrErrorCode, string(appErr.Code)))
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			o.span.RecordError(err)
			o.span.SetStatus(codes.Error, appErr.Message)
		}
		if o.metrics != nil {
			o.metrics.RecordError(ctx, string(appErr.Code), o.Service)
		}
	}

	o.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	o.span.End()

	if o.metrics != nil {
		o.metrics.RecordOperation(ctx, o.Service, o.Name, status, duration)
	}
}

// Duration returns the elapsed time since the operation started.
func (o *Operation) Duration() time.Duration {
	return time.Since(o.start)
}
