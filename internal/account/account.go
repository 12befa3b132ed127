// Package account holds the account record and the stores that persist it.
package account

import (
	"crypto/subtle"
	"log/slog"
	"strings"
	"time"
)

// Code is a single-use numeric code together with its expiry.
type Code struct {
	Value     string
	ExpiresAt time.Time
}

// Matches compares value against the code in constant time. A nil code matches nothing.
func (c *Code) Matches(value string) bool {
	if c == nil || value == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Value), []byte(value)) == 1
}

// Expired reports whether the code is absent or its expiry lies before now.
func (c *Code) Expired(now time.Time) bool {
	return c == nil || c.ExpiresAt.IsZero() || c.ExpiresAt.Before(now)
}

func (c *Code) LogValue() slog.Value {
	if c == nil {
		return slog.StringValue("none")
	}
	return slog.GroupValue(
		slog.String("value", "****"),
		slog.Time("expires_at", c.ExpiresAt),
	)
}

// Account is an immutable snapshot of a stored account. Changes are made by deriving a new
// value with the With* methods and handing it to Store.Save.
type Account struct {
	ID               string
	Email            string
	PasswordHash     string
	Verified         bool
	VerificationCode *Code
	ResetCode        *Code
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// New returns an unverified account awaiting verification with code.
func New(email, passwordHash string, code Code) Account {
	return Account{
		Email:            NormalizeEmail(email),
		PasswordHash:     passwordHash,
		VerificationCode: &code,
	}
}

// WithVerificationCode replaces the pending verification code.
func (a Account) WithVerificationCode(code Code) Account {
	a.VerificationCode = &code
	return a
}

// MarkVerified sets the account verified and clears the verification code.
func (a Account) MarkVerified() Account {
	a.Verified = true
	a.VerificationCode = nil
	return a
}

// WithResetCode replaces the pending password reset code.
func (a Account) WithResetCode(code Code) Account {
	a.ResetCode = &code
	return a
}

// WithPassword replaces the password hash, consumes the reset code and marks the account
// verified. A pending verification code is dropped with it.
func (a Account) WithPassword(passwordHash string) Account {
	a.PasswordHash = passwordHash
	a.ResetCode = nil
	a.Verified = true
	a.VerificationCode = nil
	return a
}

func (a Account) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", a.ID),
		slog.String("email", MaskEmail(a.Email)),
		slog.Bool("verified", a.Verified),
		slog.Int64("version", a.Version),
	)
}

// NormalizeEmail trims and lowercases an address so that lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MaskEmail hides the local part of an address for logging.
func MaskEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return "****"
	}
	return email[:1] + "****" + email[at:]
}
