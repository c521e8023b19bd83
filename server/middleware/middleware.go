// Package middleware holds the HTTP layers around the account API. Request
// id, logging, recovery, CORS and body-size limiting wrap the root
// http.Handler; bearer authentication and rate limiting are gin handlers
// applied per route group.
package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/userauth/errors"
)

// Middleware decorates an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so that the first one listed sees the request
// first.
func Chain(middlewares ...Middleware) Middleware {
	return func(h http.Handler) http.Handler {
		for _, m := range slices.Backward(middlewares) {
			h = m(h)
		}
		return h
	}
}

// abort ends the gin chain with the error envelope.
func abort(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus, err.ToResponse())
}
