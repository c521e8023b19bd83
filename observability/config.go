package observability

import (
	"fmt"
	"time"
)

// Config configures OTLP/HTTP export of traces and metrics.
type Config struct {
	// Enabled turns on the exporters. When off, the global no-op providers
	// stay in place and spans and instruments cost nothing.
	Enabled bool `mapstructure:"enabled"`

	// Endpoint is the OTLP HTTP collector host:port.
	Endpoint string `mapstructure:"endpoint"`

	// Insecure sends without TLS (local collectors).
	Insecure bool `mapstructure:"insecure"`

	// SampleRate is the fraction of traces kept, in (0, 1].
	SampleRate float64 `mapstructure:"sample_rate"`

	// MetricInterval is the export period for metrics (e.g. "15s").
	MetricInterval string `mapstructure:"metric_interval"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval == "" {
		c.MetricInterval = "15s"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be between 0 and 1 (got: %v)", c.SampleRate)
	}
	if _, err := time.ParseDuration(c.MetricInterval); err != nil {
		return fmt.Errorf("invalid metric_interval %q: %w", c.MetricInterval, err)
	}
	return nil
}

func (c *Config) interval() time.Duration {
	d, err := time.ParseDuration(c.MetricInterval)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}
