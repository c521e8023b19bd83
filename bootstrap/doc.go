// Package bootstrap runs a service's lifecycle: validated config, logger,
// ordered component startup, hooks, a startup summary and graceful shutdown
// on SIGINT/SIGTERM.
package bootstrap
