package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/userauth/auth"
	"github.com/kbukum/userauth/auth/authctx"
	apperrors "github.com/kbukum/userauth/errors"
	"github.com/kbukum/userauth/logger"
)

// ClaimsKey is the gin context key holding the decoded *jwt.Claims.
const ClaimsKey = "claims"

// AuthConfig configures the bearer-token authentication middleware.
type AuthConfig struct {
	// Decoder verifies the token signature and shape.
	Decoder auth.TokenDecoder
	// Now is the clock used for the expiry check. Defaults to time.Now.
	Now func() time.Time
	// Logger receives rejection events. Defaults to the global logger.
	Logger *logger.Logger
}

// Auth returns a Gin middleware that admits a request only when it carries an
// unexpired token issued by this service:
//
//   - no Authorization header: MISSING_AUTH_HEADER (401)
//   - token fails to decode: INVALID_TOKEN (400)
//   - token past its expiry: TOKEN_EXPIRED (401)
//
// On success the claims are stored in the request context (see authctx) and
// under ClaimsKey in the Gin context.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.GetGlobalLogger()
	}
	log := cfg.Logger.WithComponent("auth")

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, apperrors.MissingAuthHeader())
			return
		}

		claims, err := cfg.Decoder.Decode(bearerToken(header))
		if err != nil {
			log.WithContext(c.Request.Context()).Warn("Token rejected", map[string]interface{}{
				"path":            c.Request.URL.Path,
				logger.FieldError: err.Error(),
			})
			abort(c, apperrors.InvalidToken())
			return
		}

		if claims.Expired(cfg.Now()) {
			log.WithContext(c.Request.Context()).Info("Expired token presented", map[string]interface{}{
				logger.FieldUserID: claims.UserID(),
			})
			abort(c, apperrors.TokenExpired())
			return
		}

		ctx := authctx.Set(c.Request.Context(), claims)
		ctx = logger.ContextWithUserID(ctx, claims.UserID())
		c.Request = c.Request.WithContext(ctx)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// bearerToken strips an optional "Bearer " prefix, surrounding whitespace and
// any quote characters some clients leave around stored tokens.
func bearerToken(header string) string {
	token := strings.TrimSpace(header)
	if len(token) >= 7 && strings.EqualFold(token[:7], "Bearer ") {
		token = token[7:]
	}
	token = strings.NewReplacer(`"`, "", "'", "").Replace(token)
	return strings.TrimSpace(token)
}
