package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/kbukum/userauth/auth"
	"github.com/kbukum/userauth/auth/jwt"
	"github.com/kbukum/userauth/config"
	"github.com/kbukum/userauth/database"
	"github.com/kbukum/userauth/mongodb"
	"github.com/kbukum/userauth/observability"
	"github.com/kbukum/userauth/server"
	"github.com/kbukum/userauth/user"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// Config is the service configuration, loaded from config.yml and the
// environment (AUTH_JWT_SECRET, STORE_MONGO_URI, ...).
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server    server.Config        `yaml:"server" mapstructure:"server"`
	Auth      auth.Config          `yaml:"auth" mapstructure:"auth"`
	Store     StoreConfig          `yaml:"store" mapstructure:"store"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// StoreConfig selects and configures the account store.
type StoreConfig struct {
	// Driver is "mongo" (default) or "sqlite".
	Driver string `yaml:"driver" mapstructure:"driver"`
	// OperationTimeout bounds every store call (e.g. "10s").
	OperationTimeout string `yaml:"operation_timeout" mapstructure:"operation_timeout"`

	Breaker BreakerConfig   `yaml:"breaker" mapstructure:"breaker"`
	Mongo   mongodb.Config  `yaml:"mongo" mapstructure:"mongo"`
	SQLite  database.Config `yaml:"sqlite" mapstructure:"sqlite"`
}

// BreakerConfig controls the circuit breaker in front of the store.
type BreakerConfig struct {
	Disabled         bool   `yaml:"disabled" mapstructure:"disabled"`
	FailureThreshold int    `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	Cooldown         string `yaml:"cooldown" mapstructure:"cooldown"`
}

// ApplyDefaults fills in unset values.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Telemetry.ApplyDefaults()

	if c.Store.Driver == "" {
		c.Store.Driver = DriverMongo
	}
	if c.Store.OperationTimeout == "" {
		c.Store.OperationTimeout = user.DefaultOperationTimeout.String()
	}
	if c.Store.Breaker.FailureThreshold == 0 {
		c.Store.Breaker.FailureThreshold = 5
	}
	if c.Store.Breaker.Cooldown == "" {
		c.Store.Breaker.Cooldown = "30s"
	}
	c.Store.Mongo.ApplyDefaults()
	c.Store.SQLite.ApplyDefaults()
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if c.IsProduction() && c.Auth.JWT.Secret == jwt.DevelopmentSecret {
		return errors.New("auth.jwt.secret must be overridden in production")
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return c.Store.Validate()
}

// Validate checks the selected driver's settings.
func (c *StoreConfig) Validate() error {
	if d, err := time.ParseDuration(c.OperationTimeout); err != nil || d <= 0 {
		return fmt.Errorf("store.operation_timeout must be a positive duration (got: %q)", c.OperationTimeout)
	}
	if !c.Breaker.Disabled {
		if c.Breaker.FailureThreshold < 1 {
			return fmt.Errorf("store.breaker.failure_threshold must be at least 1 (got: %d)", c.Breaker.FailureThreshold)
		}
		if d, err := time.ParseDuration(c.Breaker.Cooldown); err != nil || d <= 0 {
			return fmt.Errorf("store.breaker.cooldown must be a positive duration (got: %q)", c.Breaker.Cooldown)
		}
	}
	switch c.Driver {
	case DriverMongo:
		if err := c.Mongo.Validate(); err != nil {
			return fmt.Errorf("store.mongo: %w", err)
		}
	case DriverSQLite:
		if err := c.SQLite.Validate(); err != nil {
			return fmt.Errorf("store.sqlite: %w", err)
		}
	default:
		return fmt.Errorf("store.driver must be one of [mongo, sqlite] (got: %s)", c.Driver)
	}
	return nil
}

func (c *StoreConfig) operationTimeout() time.Duration {
	d, _ := time.ParseDuration(c.OperationTimeout)
	return d
}

func (c *BreakerConfig) cooldown() time.Duration {
	d, _ := time.ParseDuration(c.Cooldown)
	return d
}
