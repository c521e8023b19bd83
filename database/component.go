package database

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/kbukum/userauth/component"
	"github.com/kbukum/userauth/database/migration"
	"github.com/kbukum/userauth/logger"
	"github.com/kbukum/userauth/util"
)

const componentName = "database"

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component owns the SQLite database behind the sqlite account store and
// brings its schema up to date on Start.
type Component struct {
	db  *DB
	cfg Config
	log *logger.Logger

	migrations     fs.FS
	migrationsPath string
}

// NewComponent applies defaults to cfg. Nothing opens until Start.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg: cfg,
		log: log.WithComponent(componentName),
	}
}

// WithMigrations sets the schema applied on Start, the directory path
// inside fsys.
func (c *Component) WithMigrations(fsys fs.FS, path string) *Component {
	c.migrations = fsys
	c.migrationsPath = path
	return c
}

// DB is nil until Start succeeds.
func (c *Component) DB() *DB {
	return c.db
}

func (c *Component) Name() string { return componentName }

// Start opens the database and applies pending migrations. A failed
// migration closes the database again.
func (c *Component) Start(ctx context.Context) error {
	db, err := Open(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("database start: %w", err)
	}
	c.db = db

	if c.migrations != nil {
		m, err := migration.New(db.GormDB, c.migrations, c.migrationsPath)
		if err == nil {
			err = m.Up()
		}
		if err != nil {
			_ = db.Close()
			c.db = nil
			return fmt.Errorf("database migrate: %w", err)
		}
		if version, dirty, err := m.Version(); err == nil {
			c.log.Info("Schema up to date", map[string]interface{}{"version": version, "dirty": dirty})
		}
	}
	return nil
}

// Stop closes the pool.
func (c *Component) Stop(_ context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Health pings and reports pool usage.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.db == nil {
		return component.Unhealthy(componentName, "database not initialized")
	}

	status := c.db.CheckHealth(ctx)
	if !status.Connected {
		return component.Unhealthy(componentName, "ping failed: %s", status.Error)
	}
	return component.Healthy(componentName, "open=%d in_use=%d latency=%s", status.OpenConns, status.InUseConns, status.Latency)
}

// Describe masks the DSN.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("sqlite %s pool=%d/%d", util.MaskURI(c.cfg.DSN), c.cfg.MaxOpenConns, c.cfg.MaxIdleConns)
	if c.migrations != nil {
		details += " migrations=on"
	}
	return component.Description{
		Name:    "Database",
		Type:    "database",
		Details: details,
	}
}
