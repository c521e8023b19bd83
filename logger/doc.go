// Package logger provides structured logging built on zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers and request-scoped fields carried through context.Context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("user-service")
//	log.Info("User registered", logger.Fields("email", email))
package logger
