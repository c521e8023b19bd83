package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod is an HMAC algorithm name as it appears in the token header.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

var hmacMethods = map[SigningMethod]*gojwt.SigningMethodHMAC{
	HS256: gojwt.SigningMethodHS256,
	HS384: gojwt.SigningMethodHS384,
	HS512: gojwt.SigningMethodHS512,
}

// DefaultTTL is how long a session token stays valid: 30 days.
const DefaultTTL = 30 * 24 * time.Hour

// DevelopmentSecret is the placeholder in the shipped config. Production
// must override it.
const DevelopmentSecret = "change-me-in-production"

// Config is the "auth.jwt" section.
type Config struct {
	Secret string        `mapstructure:"secret" yaml:"secret"`
	Method SigningMethod `mapstructure:"method" yaml:"method"`
	TTL    time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// ApplyDefaults signs with HS256 and issues tokens for DefaultTTL.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TTL == 0 {
		c.TTL = DefaultTTL
	}
}

func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("secret is required")
	}
	if _, ok := hmacMethods[c.Method]; !ok {
		return fmt.Errorf("unsupported signing method %q (HS256, HS384 or HS512)", c.Method)
	}
	if c.TTL <= 0 {
		return fmt.Errorf("ttl must be positive (got: %s)", c.TTL)
	}
	return nil
}

// signingMethod falls back to HS256 for an unvalidated config.
func (c *Config) signingMethod() gojwt.SigningMethod {
	if m, ok := hmacMethods[c.Method]; ok {
		return m
	}
	return gojwt.SigningMethodHS256
}
