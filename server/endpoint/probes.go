// Package endpoint holds the operational handlers mounted at the server
// root: health, readiness, liveness and build info.
package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/userauth/component"
	"github.com/kbukum/userauth/version"
)

// HealthChecker returns the health of every registered component.
type HealthChecker func(ctx context.Context) []component.Health

var started = time.Now()

// Probe is the body shared by the probe endpoints.
type Probe struct {
	Status     string             `json:"status"`
	Service    string             `json:"service"`
	Timestamp  string             `json:"timestamp"`
	Components []component.Health `json:"components,omitempty"`
}

func probe(service, status string) Probe {
	return Probe{Status: status, Service: service, Timestamp: time.Now().UTC().Format(time.RFC3339)}
}

// Health reports every component. Any unhealthy component (a lost datastore
// connection, for instance) turns the answer into a 503.
func Health(service string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		components := check(c.Request.Context(), checker)
		status := Overall(components)

		body := probe(service, string(status))
		body.Components = components
		c.JSON(httpStatus(status), body)
	}
}

// Readiness answers 503 "not_ready" while the service cannot serve accounts.
func Readiness(service string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := Overall(check(c.Request.Context(), checker))
		if status == component.StatusUnhealthy {
			c.JSON(http.StatusServiceUnavailable, probe(service, "not_ready"))
			return
		}
		c.JSON(http.StatusOK, probe(service, "ready"))
	}
}

// Liveness only confirms the process answers HTTP.
func Liveness(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, probe(service, "alive"))
	}
}

// Info reports the build the process was started from.
func Info(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := version.GetVersionInfo()
		c.JSON(http.StatusOK, gin.H{
			"service":    service,
			"version":    v.Version,
			"git_commit": v.GitCommit,
			"build_time": v.BuildTime,
			"go_version": v.GoVersion,
			"is_dirty":   v.IsDirty,
			"uptime":     time.Since(started).Round(time.Second).String(),
		})
	}
}

// Overall folds component statuses; unhealthy wins over degraded.
func Overall(components []component.Health) component.HealthStatus {
	status := component.StatusHealthy
	for _, h := range components {
		switch h.Status {
		case component.StatusUnhealthy:
			return component.StatusUnhealthy
		case component.StatusDegraded:
			status = component.StatusDegraded
		}
	}
	return status
}

func check(ctx context.Context, checker HealthChecker) []component.Health {
	if checker == nil {
		return nil
	}
	return checker(ctx)
}

func httpStatus(s component.HealthStatus) int {
	if s == component.StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}
