package auth

import (
	"fmt"

	"github.com/kbukum/userauth/auth/jwt"
	"github.com/kbukum/userauth/auth/password"
)

// Config holds all authentication configuration.
type Config struct {
	// JWT configures the session token codec.
	JWT jwt.Config `mapstructure:"jwt" yaml:"jwt"`

	// Password configures password hashing.
	Password password.Config `mapstructure:"password" yaml:"password"`
}

// ApplyDefaults sets defaults on both sub-configurations.
func (c *Config) ApplyDefaults() {
	c.JWT.ApplyDefaults()
	c.Password.ApplyDefaults()
}

// Validate checks both sub-configurations.
func (c *Config) Validate() error {
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return fmt.Errorf("auth.password: %w", err)
	}
	return nil
}

// Describe returns a one-liner for the startup summary.
// Example: "JWT(HS256) TTL=720h0m0s password=bcrypt(10)"
func (c *Config) Describe() string {
	return fmt.Sprintf("JWT(%s) TTL=%s password=bcrypt(%d)", c.JWT.Method, c.JWT.TTL, c.Password.BcryptCost)
}
