// Package server provides the HTTP server: a Gin engine mounted on a root
// ServeMux and served over HTTP/1.1 and h2c.
//
// Every request passes through the server-level chain (server/middleware):
//
//   - Recovery: panic recovery with a generic INTERNAL_ERROR response
//   - RequestID: X-Request-Id generation and propagation into the log context
//   - RequestLogger: one log line per request, level by status
//   - CORS: allowed origins, methods and headers; preflight answered with 204
//   - BodySizeLimit: request body cap
//
// Route-level middleware is applied by the route owner: Auth guards the
// session-protected user routes and AuthRateLimit throttles register/login.
//
// RegisterDefaultEndpoints adds "/", "/favicon.ico", "/health", "/ready",
// "/alive" and "/info". Errors are written with RespondWithError using the
// errors package envelope.
package server
