package hash

import (
	"errors"
	"fmt"

	"github.com/ferdiebergado/susi/internal/config"
)

var ErrInvalidFormat = errors.New("invalid hash format")

// Hasher is a one-way password hash with verification.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) (bool, error)
}

// New returns the hasher selected by cfg.Algorithm.
func New(cfg *config.Hash, argon2Cfg *config.Argon2, pepper string) (Hasher, error) {
	switch cfg.Algorithm {
	case config.HashArgon2id:
		return NewArgon2Hasher(argon2Cfg, pepper), nil
	case config.HashBcrypt:
		return NewBcryptHasher(cfg.BcryptCost), nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", cfg.Algorithm)
	}
}
