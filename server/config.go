package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kbukum/userauth/server/middleware"
	"github.com/kbukum/userauth/util"
)

// Config is the "server" section: the listener, the account API base path
// and the middleware around it. Timeouts are whole seconds.
type Config struct {
	Host         string                `yaml:"host" mapstructure:"host"`
	Port         int                   `yaml:"port" mapstructure:"port"`
	BasePath     string                `yaml:"base_path" mapstructure:"base_path"`
	ReadTimeout  int                   `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout int                   `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  int                   `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	// DrainDelay is how long /ready reports 503 before the listener closes.
	DrainDelay   int                   `yaml:"drain_delay" mapstructure:"drain_delay"`
	MaxBodySize  string                `yaml:"max_body_size" mapstructure:"max_body_size"`
	CORS         middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
	RateLimit    RateLimitConfig       `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// RateLimitConfig bounds unauthenticated endpoints (register, login) per client IP.
type RateLimitConfig struct {
	Disabled          bool `yaml:"disabled" mapstructure:"disabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// ApplyDefaults serves /api on :8080 for a frontend at localhost:4200.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"http://localhost:4200"}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = middleware.DefaultRequestsPerMinute
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port))
	}
	if !strings.HasPrefix(c.BasePath, "/") {
		errs = append(errs, fmt.Errorf("server.base_path must start with '/' (got: %q)", c.BasePath))
	}
	for name, v := range map[string]int{
		"read_timeout":                   c.ReadTimeout,
		"write_timeout":                  c.WriteTimeout,
		"idle_timeout":                   c.IdleTimeout,
		"drain_delay":                    c.DrainDelay,
		"rate_limit.requests_per_minute": c.RateLimit.RequestsPerMinute,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("server.%s must be non-negative (got: %d)", name, v))
		}
	}
	if _, err := util.ParseSize(c.MaxBodySize); err != nil {
		errs = append(errs, fmt.Errorf("server.max_body_size: %w", err))
	}
	if err := c.CORS.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// DefaultMaxBodySize applies when max_body_size is unset or unparsable.
const DefaultMaxBodySize = 1 << 20

func (c *Config) maxBodyBytes() int64 {
	n, err := util.ParseSize(c.MaxBodySize)
	if err != nil {
		return DefaultMaxBodySize
	}
	return n
}
