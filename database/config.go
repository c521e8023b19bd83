package database

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Config is the "store.sqlite" section used when accounts live in SQLite.
type Config struct {
	// DSN is the SQLite data source, e.g. "userauth.db" or
	// "file:userauth?mode=memory&cache=shared".
	DSN string `mapstructure:"dsn"`

	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime string `mapstructure:"conn_max_idle_time"`

	// MaxRetries bounds connection attempts on Start.
	MaxRetries int `mapstructure:"max_retries"`

	// SlowQueryThreshold marks queries logged at warn, e.g. "200ms".
	SlowQueryThreshold string `mapstructure:"slow_query_threshold"`

	// LogLevel is the GORM log level: silent, error, warn or info.
	LogLevel string `mapstructure:"log_level"`
}

var logLevels = []string{"silent", "error", "warn", "info"}

// ApplyDefaults fills unset fields. SQLite serializes writers, so the pool
// holds a single connection unless told otherwise.
func (c *Config) ApplyDefaults() {
	if c.DSN == "" {
		c.DSN = "userauth.db"
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 1
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 1
	}
	if c.ConnMaxLifetime == "" {
		c.ConnMaxLifetime = "1h"
	}
	if c.ConnMaxIdleTime == "" {
		c.ConnMaxIdleTime = "5m"
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.SlowQueryThreshold == "" {
		c.SlowQueryThreshold = "200ms"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.DSN == "" {
		errs = append(errs, errors.New("dsn is required"))
	}
	if c.MaxOpenConns <= 0 || c.MaxIdleConns <= 0 {
		errs = append(errs, errors.New("max_open_conns and max_idle_conns must be > 0"))
	} else if c.MaxIdleConns > c.MaxOpenConns {
		errs = append(errs, fmt.Errorf("max_idle_conns (%d) must be <= max_open_conns (%d)", c.MaxIdleConns, c.MaxOpenConns))
	}
	if c.MaxRetries <= 0 {
		errs = append(errs, errors.New("max_retries must be > 0"))
	}
	for name, v := range map[string]string{
		"conn_max_lifetime":    c.ConnMaxLifetime,
		"conn_max_idle_time":   c.ConnMaxIdleTime,
		"slow_query_threshold": c.SlowQueryThreshold,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s %q", name, v))
		}
	}
	if !slices.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		errs = append(errs, fmt.Errorf("invalid log_level %q (must be one of: %s)", c.LogLevel, strings.Join(logLevels, ", ")))
	}
	return errors.Join(errs...)
}

// duration parses a field already checked by Validate.
func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
