package jwt

import (
	"errors"
	"time"
)

var (
	ErrMissingKey   = errors.New("jwt signing key is empty")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the verified claims of a session token.
type Claims struct {
	Subject   string
	Audience  []string
	ID        string
	ExpiresAt time.Time
}

// Signer defines methods for signing and verifying JWT tokens.
type Signer interface {
	Sign(subject string, audience []string, duration time.Duration) (token string, err error)
	Verify(tokenString string) (*Claims, error)
}
