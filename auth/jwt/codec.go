// Package jwt implements the session token codec: HMAC-signed JWTs carrying
// a fixed set of identity claims.
//
// Decode verifies the signature and the claim shape but leaves expiry to the
// caller, so the auth middleware can report an expired token separately from
// a forged one.
//
//	codec, err := jwt.NewCodec(&jwt.Config{Secret: secret})
//	token, err := codec.Issue(jwt.Subject{ID: id, Email: email, Role: "ROLE_USER"})
//	claims, err := codec.Decode(token)
//	if claims.Expired(time.Now()) { ... }
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for malformed, forged or incomplete tokens.
var ErrInvalidToken = errors.New("jwt: invalid token")

// Codec signs and verifies session tokens.
type Codec struct {
	cfg    Config
	method gojwt.SigningMethod
	key    []byte
	now    func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock overrides the time source used for iat and exp.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec creates a codec from configuration.
func NewCodec(cfg *Config, opts ...Option) (*Codec, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	c := &Codec{
		cfg:    *cfg,
		method: cfg.signingMethod(),
		key:    []byte(cfg.Secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.cfg.TTL }

// Encode signs claims with the given expiry. IssuedAt defaults to now.
func (c *Codec) Encode(claims Claims, expiresAt time.Time) (string, error) {
	claims.ExpiresAt = gojwt.NewNumericDate(expiresAt)
	if claims.IssuedAt == nil {
		claims.IssuedAt = gojwt.NewNumericDate(c.now())
	}
	signed, err := gojwt.NewWithClaims(c.method, &claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Issue creates a token for subject that expires after the configured TTL.
func (c *Codec) Issue(sub Subject) (string, error) {
	now := c.now()
	claims := Claims{
		Name:    sub.Name,
		Surname: sub.Surname,
		Email:   sub.Email,
		Role:    sub.Role,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:  sub.ID,
			IssuedAt: gojwt.NewNumericDate(now),
		},
	}
	return c.Encode(claims, now.Add(c.cfg.TTL))
}

// Decode verifies the token signature and returns its claims. Expiry is not
// checked; use Claims.Expired.
func (c *Codec) Decode(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := gojwt.ParseWithClaims(token, claims, c.keyFunc,
		gojwt.WithValidMethods([]string{c.method.Alg()}),
		gojwt.WithStrictDecoding(),
		gojwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.complete() {
		return nil, fmt.Errorf("%w: missing required claims", ErrInvalidToken)
	}
	return claims, nil
}

func (c *Codec) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != c.method.Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
	}
	return c.key, nil
}
