// Package component defines the lifecycle contract for infrastructure
// (datastore clients, the HTTP server, telemetry) and a registry that starts
// them in order and stops them in reverse.
package component
