package account

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("account not found")
	ErrDuplicateKey = errors.New("account already exists")
	ErrConflict     = errors.New("account was modified concurrently")
)

// Store persists accounts keyed by their normalized email.
//
// Save is a compare-and-swap on Version: it succeeds only when the stored version equals
// the version of the given account, and returns the account with the new version.
type Store interface {
	FindByEmail(ctx context.Context, email string) (Account, error)
	Create(ctx context.Context, acct Account) (Account, error)
	Save(ctx context.Context, acct Account) (Account, error)
	DeleteByEmail(ctx context.Context, email string) error
	Ping(ctx context.Context) error
}
