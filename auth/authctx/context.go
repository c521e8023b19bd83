// Package authctx carries the authenticated session claims through a
// request context.
//
//	ctx = authctx.Set(ctx, claims)      // auth middleware
//	claims, ok := authctx.Get(ctx)      // handlers
package authctx

import (
	"context"
	"errors"

	"github.com/kbukum/userauth/auth/jwt"
)

type contextKey struct{}

var claimsKey = contextKey{}

// ErrNoClaims is returned when the context carries no claims.
var ErrNoClaims = errors.New("authctx: no claims in context")

// Set stores claims in the context.
func Set(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// Get returns the claims stored in ctx, if any.
func Get(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*jwt.Claims)
	return claims, ok && claims != nil
}

// GetOrError returns the stored claims or ErrNoClaims.
func GetOrError(ctx context.Context) (*jwt.Claims, error) {
	claims, ok := Get(ctx)
	if !ok {
		return nil, ErrNoClaims
	}
	return claims, nil
}

// UserID returns the authenticated user id, or "" when unauthenticated.
func UserID(ctx context.Context) string {
	if claims, ok := Get(ctx); ok {
		return claims.Subject
	}
	return ""
}
