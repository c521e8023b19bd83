package database

import (
	"context"
	"time"
)

// HealthStatus is a ping result plus pool counters.
type HealthStatus struct {
	Connected  bool          `json:"connected"`
	Error      string        `json:"error,omitempty"`
	Latency    time.Duration `json:"latency"`
	OpenConns  int           `json:"open_connections"`
	InUseConns int           `json:"in_use_connections"`
	IdleConns  int           `json:"idle_connections"`
}

// CheckHealth pings the pool. A closed database is reported without a ping.
func (d *DB) CheckHealth(ctx context.Context) HealthStatus {
	if d.closed.Load() {
		return HealthStatus{Error: "database closed"}
	}
	start := time.Now()
	if err := d.pool.PingContext(ctx); err != nil {
		return HealthStatus{Error: err.Error(), Latency: time.Since(start)}
	}
	stats := d.pool.Stats()
	return HealthStatus{
		Connected:  true,
		Latency:    time.Since(start),
		OpenConns:  stats.OpenConnections,
		InUseConns: stats.InUse,
		IdleConns:  stats.Idle,
	}
}
