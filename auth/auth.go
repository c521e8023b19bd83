package auth

import "github.com/kbukum/userauth/auth/jwt"

// TokenIssuer issues a session token for an identity.
type TokenIssuer interface {
	Issue(sub jwt.Subject) (string, error)
}

// TokenDecoder verifies a session token and returns its claims. Expiry is
// left to the caller.
type TokenDecoder interface {
	Decode(token string) (*jwt.Claims, error)
}

// TokenDecoderFunc adapts an ordinary function to the TokenDecoder interface.
type TokenDecoderFunc func(token string) (*jwt.Claims, error)

// Decode implements TokenDecoder.
func (f TokenDecoderFunc) Decode(token string) (*jwt.Claims, error) {
	return f(token)
}

var (
	_ TokenIssuer  = (*jwt.Codec)(nil)
	_ TokenDecoder = (*jwt.Codec)(nil)
)
