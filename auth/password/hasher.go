// Package password provides one-way password hashing and verification.
//
// Usage:
//
//	hasher := password.NewBcryptHasher()
//	digest, err := hasher.Hash("my-password")
//	ok := hasher.Verify("my-password", digest)
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// MaxLength is the longest input bcrypt accepts.
const MaxLength = 72

var (
	// ErrEmpty is returned when hashing an empty password.
	ErrEmpty = errors.New("password: empty password")
	// ErrTooLong is returned when the password exceeds MaxLength bytes.
	ErrTooLong = errors.New("password: maximum length is 72 bytes (bcrypt limit)")
)

// Hasher hashes and verifies passwords.
type Hasher interface {
	// Hash returns a salted digest of the password.
	Hash(password string) (string, error)

	// Verify reports whether password matches digest. A malformed digest
	// never matches.
	Verify(password, digest string) bool
}

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// BcryptOption configures the bcrypt hasher.
type BcryptOption func(*BcryptHasher)

// WithCost sets the bcrypt cost parameter. Out of range values are ignored.
func WithCost(cost int) BcryptOption {
	return func(h *BcryptHasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

// NewBcryptHasher creates a bcrypt-based password hasher.
func NewBcryptHasher(opts ...BcryptOption) *BcryptHasher {
	h := &BcryptHasher{cost: DefaultCost}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Cost returns the configured work factor.
func (h *BcryptHasher) Cost() int { return h.cost }

func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmpty
	}
	if len(password) > MaxLength {
		return "", ErrTooLong
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(password, digest string) bool {
	if password == "" || digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
