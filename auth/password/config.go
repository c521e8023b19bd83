package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Config holds the hashing work factor stored with every new digest.
// Existing digests keep the cost they were created with, so raising it
// only affects accounts registered afterwards.
type Config struct {
	BcryptCost int `mapstructure:"bcrypt_cost" yaml:"bcrypt_cost"`
}

// ApplyDefaults fills an unset cost with DefaultCost.
func (c *Config) ApplyDefaults() {
	if c.BcryptCost == 0 {
		c.BcryptCost = DefaultCost
	}
}

// Validate rejects costs bcrypt would silently clamp.
func (c *Config) Validate() error {
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost %d outside [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

// NewHasher returns the bcrypt hasher for cfg.
func NewHasher(cfg Config) Hasher {
	cfg.ApplyDefaults()
	return NewBcryptHasher(WithCost(cfg.BcryptCost))
}
