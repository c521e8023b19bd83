package jwt

import (
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a session token. Subject carries the user id.
type Claims struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	gojwt.RegisteredClaims
}

// Subject is the identity snapshot a token is issued for.
type Subject struct {
	ID      string
	Name    string
	Surname string
	Email   string
	Role    string
}

// Expired reports whether the token is no longer valid at now.
// A token whose expiry equals the current second is expired.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return now.Unix() >= c.ExpiresAt.Unix()
}

// UserID returns the subject claim.
func (c *Claims) UserID() string { return c.Subject }

func (c *Claims) complete() bool {
	return c.Subject != "" && c.Email != "" && c.Role != "" && c.ExpiresAt != nil
}
