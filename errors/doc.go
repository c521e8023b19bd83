// Package errors provides the structured error type used across the service.
// Each error carries a machine-readable code, a client-safe message, the HTTP
// status it maps to and a retryable flag. Underlying causes are kept for
// logging and never serialized.
package errors
