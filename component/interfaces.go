package component

import (
	"context"
	"fmt"
)

// HealthStatus is what /health and /ready report per component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health is one component's entry in the probe response.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Healthy reports name as healthy with an optional formatted message.
func Healthy(name, format string, args ...any) Health {
	return Health{Name: name, Status: StatusHealthy, Message: fmt.Sprintf(format, args...)}
}

// Unhealthy reports name as unhealthy.
func Unhealthy(name, format string, args ...any) Health {
	return Health{Name: name, Status: StatusUnhealthy, Message: fmt.Sprintf(format, args...)}
}

// Component is infrastructure with a lifecycle: the account store client,
// the SQL database, the HTTP server and the telemetry exporters.
type Component interface {
	Name() string

	// Start connects or begins serving. It must not return until the
	// component is usable.
	Start(ctx context.Context) error

	// Stop releases resources. It must be safe after a failed Start.
	Stop(ctx context.Context) error

	Health(ctx context.Context) Health
}

// Description is one row of the startup summary.
type Description struct {
	// Name defaults to Component.Name.
	Name string
	// Type groups rows: "database", "server" or "telemetry".
	Type    string
	Details string
	// Port is zero when the component does not listen.
	Port int
}

// Describable components appear in the startup summary.
type Describable interface {
	Describe() Description
}

// Route is one registered HTTP route.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider is implemented by the HTTP server component so the summary
// can list the account API.
type RouteProvider interface {
	Routes() []Route
}
