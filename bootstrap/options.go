package bootstrap

import (
	"io"
	"time"

	"github.com/kbukum/userauth/logger"
)

// Option configures an App.
type Option func(*options)

type options struct {
	logger          *logger.Logger
	shutdownTimeout time.Duration
	summaryOut      io.Writer
}

// WithLogger uses l instead of a logger built from the logging config.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithGracefulTimeout overrides the configured shutdown timeout.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// WithSummaryOutput redirects the startup summary (default: stdout).
func WithSummaryOutput(w io.Writer) Option {
	return func(o *options) { o.summaryOut = w }
}
