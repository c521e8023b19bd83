package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/userauth/component"
	"github.com/kbukum/userauth/logger"
	"github.com/kbukum/userauth/util"
)

const componentName = "mongodb"

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component owns the Mongo client holding the users collection. The
// registry starts it before the HTTP server and stops it after.
type Component struct {
	client *Client
	cfg    Config
	log    *logger.Logger
}

// NewComponent applies defaults to cfg. Nothing connects until Start.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg: cfg,
		log: log.WithComponent(componentName),
	}
}

// Client is nil until Start succeeds.
func (c *Component) Client() *Client {
	return c.client
}

func (c *Component) Name() string { return componentName }

// Start connects and verifies the primary is reachable.
func (c *Component) Start(ctx context.Context) error {
	client, err := Connect(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("mongodb start: %w", err)
	}
	c.client = client
	return nil
}

// Stop disconnects. A second Stop is a no-op.
func (c *Component) Stop(ctx context.Context) error {
	client := c.client
	if client == nil {
		return nil
	}
	c.client = nil
	return client.Disconnect(ctx)
}

// Health pings the primary and reports the round trip.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.client == nil {
		return component.Unhealthy(componentName, "mongodb not initialized")
	}
	start := time.Now()
	if err := c.client.Ping(ctx); err != nil {
		return component.Unhealthy(componentName, "ping failed: %v", err)
	}
	return component.Healthy(componentName, "db=%s latency=%s", c.cfg.Database, time.Since(start).Round(time.Microsecond))
}

// Describe masks credentials in the URI.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "MongoDB",
		Type:    "database",
		Details: fmt.Sprintf("%s db=%s pool=%d tls=%s", util.MaskURI(c.cfg.URI), c.cfg.Database, c.cfg.MaxPoolSize, c.cfg.TLS.Describe()),
	}
}
