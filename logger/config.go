package logger

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Output formats. Console and pretty both use the human-readable writer.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
	FormatPretty  = "pretty"
)

var (
	levels  = []string{"trace", "debug", "info", "warn", "error", "fatal"}
	formats = []string{FormatJSON, FormatConsole, FormatPretty}
	outputs = []string{"stdout", "stderr"}
)

// Config is the "logging" section of the service config.
type Config struct {
	// ServiceName tags every line; filled from the service config when empty.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	Level       string `yaml:"level" mapstructure:"level"`
	Format      string `yaml:"format" mapstructure:"format"`
	Output      string `yaml:"output" mapstructure:"output"`
	NoColor     bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp   bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller      bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults logs at info to stdout in console format. Timestamps are
// always on.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	c.Timestamp = true
}

// Validate rejects unknown levels, formats and outputs. An empty output
// means stdout.
func (c *Config) Validate() error {
	if !slices.Contains(levels, strings.ToLower(c.Level)) {
		return fmt.Errorf("logging.level %q is not one of %s", c.Level, strings.Join(levels, ", "))
	}
	if !slices.Contains(formats, strings.ToLower(c.Format)) {
		return fmt.Errorf("logging.format %q is not one of %s", c.Format, strings.Join(formats, ", "))
	}
	if c.Output != "" && !slices.Contains(outputs, strings.ToLower(c.Output)) {
		return fmt.Errorf("logging.output %q is not one of %s", c.Output, strings.Join(outputs, ", "))
	}
	return nil
}

func (c *Config) writer() io.Writer {
	if strings.EqualFold(c.Output, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}
