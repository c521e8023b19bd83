// Package util holds small helpers shared across packages: size parsing for
// configuration, input sanitization, connection-string masking for logs, and
// pointer helpers for optional fields.
package util
