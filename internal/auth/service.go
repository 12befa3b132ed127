package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ferdiebergado/susi/internal/account"
	"github.com/ferdiebergado/susi/internal/config"
	"github.com/ferdiebergado/susi/internal/platform/hash"
	"github.com/ferdiebergado/susi/internal/platform/jwt"
	"github.com/ferdiebergado/susi/internal/platform/validation"
	"github.com/sethvargo/go-retry"
)

const (
	opRegister           = "register"
	opResendVerification = "resend_verification"
	opVerifyEmail        = "verify_email"
	opLogin              = "login"
	opSendResetCode      = "send_reset_code"
	opResetPassword      = "reset_password"
)

// Provider carries the collaborators of the Service. Codes, Metrics and Clock are optional.
type Provider struct {
	Store     account.Store
	Hasher    hash.Hasher
	Signer    jwt.Signer
	Notifier  Notifier
	Validator validation.Validator
	Codes     *CodeGenerator
	Metrics   *Metrics
	Clock     func() time.Time
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	AccountID string
	Email     string
	ExpiresAt time.Time
}

// Service runs the account lifecycle: registration, email verification, login and
// password reset.
type Service struct {
	store    account.Store
	hasher   hash.Hasher
	signer   jwt.Signer
	notifier Notifier
	codes    *CodeGenerator
	metrics  *Metrics
	now      func() time.Time
	policy   *policy
	auth     *config.Auth
	jwt      *config.JWT
}

// NewService returns a ConfigurationFault when a required collaborator or config section
// is missing.
func NewService(provider *Provider, cfg *config.Config) (*Service, error) {
	if provider == nil || cfg == nil || cfg.Auth == nil || cfg.JWT == nil {
		return nil, newError(KindConfigurationFault, errors.New("provider and config are required"))
	}

	required := []struct {
		name   string
		absent bool
	}{
		{"store", provider.Store == nil},
		{"hasher", provider.Hasher == nil},
		{"signer", provider.Signer == nil},
		{"notifier", provider.Notifier == nil},
		{"validator", provider.Validator == nil},
	}
	for _, r := range required {
		if r.absent {
			return nil, newError(KindConfigurationFault, fmt.Errorf("%s is required", r.name))
		}
	}

	if cfg.Auth.RetryDelay <= 0 {
		return nil, newError(KindConfigurationFault, errors.New("auth.retry_delay must be positive"))
	}

	now := provider.Clock
	if now == nil {
		now = time.Now
	}

	codes := provider.Codes
	if codes == nil {
		codes = NewCodeGenerator(now)
	}

	return &Service{
		store:    provider.Store,
		hasher:   provider.Hasher,
		signer:   provider.Signer,
		notifier: provider.Notifier,
		codes:    codes,
		metrics:  provider.Metrics,
		now:      now,
		policy:   newPolicy(provider.Validator, cfg.Auth.PasswordMinLength, cfg.Auth.PasswordMinEntropy),
		auth:     cfg.Auth,
		jwt:      cfg.JWT,
	}, nil
}

// Register creates an unverified account and sends it a verification code.
func (s *Service) Register(ctx context.Context, email, password string) (acct account.Account, err error) {
	defer func() { s.metrics.recordOperation(opRegister, err) }()

	email = account.NormalizeEmail(email)
	if err := s.policy.check(s.policy.email(email), s.policy.newPassword(password)); err != nil {
		return account.Account{}, err
	}

	_, err = s.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return account.Account{}, ErrAlreadyRegistered
	case !errors.Is(err, account.ErrNotFound):
		return account.Account{}, fmt.Errorf("find account: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return account.Account{}, fmt.Errorf("hash password: %w", err)
	}

	code, err := s.codes.Generate(s.auth.CodeLength, s.auth.VerificationTTL)
	if err != nil {
		return account.Account{}, err
	}

	if err := s.deliver(ctx, email, code, PurposeVerification); err != nil {
		return account.Account{}, err
	}

	created, err := s.store.Create(context.WithoutCancel(ctx), account.New(email, hashed, code))
	if err != nil {
		if errors.Is(err, account.ErrDuplicateKey) {
			return account.Account{}, ErrAlreadyRegistered
		}
		return account.Account{}, fmt.Errorf("create account: %w", err)
	}

	slog.Info("Account registered.", "account", created)
	return created, nil
}

// ResendVerification replaces the pending verification code of an unverified account.
func (s *Service) ResendVerification(ctx context.Context, email string) (err error) {
	defer func() { s.metrics.recordOperation(opResendVerification, err) }()

	email = account.NormalizeEmail(email)
	if err := s.policy.check(s.policy.email(email)); err != nil {
		return err
	}

	acct, err := s.find(ctx, email)
	if err != nil {
		return err
	}
	if acct.Verified {
		return ErrAlreadyVerified
	}

	code, err := s.codes.Generate(s.auth.CodeLength, s.auth.VerificationTTL)
	if err != nil {
		return err
	}

	if err := s.deliver(ctx, email, code, PurposeVerification); err != nil {
		return err
	}

	_, err = s.update(context.WithoutCancel(ctx), email, func(acct account.Account) (account.Account, error) {
		if acct.Verified {
			return account.Account{}, ErrAlreadyVerified
		}
		return acct.WithVerificationCode(code), nil
	})
	return err
}

// VerifyEmail consumes the verification code and marks the account verified.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) (err error) {
	defer func() { s.metrics.recordOperation(opVerifyEmail, err) }()

	email = account.NormalizeEmail(email)
	if err := s.policy.check(s.policy.email(email), s.policy.required(fieldCode, code)); err != nil {
		return err
	}

	verified, err := s.update(ctx, email, func(acct account.Account) (account.Account, error) {
		if acct.Verified {
			return account.Account{}, ErrAlreadyVerified
		}
		if !acct.VerificationCode.Matches(code) {
			return account.Account{}, ErrInvalidCode
		}
		if acct.VerificationCode.Expired(s.now()) {
			return account.Account{}, ErrCodeExpired
		}
		return acct.MarkVerified(), nil
	})
	if err != nil {
		return err
	}

	slog.Info("Email verified.", "account", verified)
	return nil
}

// Login checks the credentials of a verified account and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (session Session, err error) {
	defer func() { s.metrics.recordOperation(opLogin, err) }()

	email = account.NormalizeEmail(email)
	if err := s.policy.check(s.policy.email(email), s.policy.required(fieldPassword, password)); err != nil {
		return Session{}, err
	}

	acct, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("find account: %w", err)
	}

	if !acct.Verified {
		return Session{}, ErrEmailNotVerified
	}

	ok, err := s.hasher.Verify(password, acct.PasswordHash)
	if err != nil {
		return Session{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return Session{}, ErrInvalidCredentials
	}

	ttl := s.jwt.TTL
	token, err := s.signer.Sign(acct.ID, []string{s.jwt.Issuer}, ttl)
	if err != nil {
		return Session{}, fmt.Errorf("sign session token: %w", err)
	}

	slog.Info("Logged in.", "account", acct)
	return Session{
		Token:     token,
		AccountID: acct.ID,
		Email:     acct.Email,
		ExpiresAt: s.now().Add(ttl),
	}, nil
}

// SendResetCode issues a password reset code to an existing account.
func (s *Service) SendResetCode(ctx context.Context, email string) (err error) {
	defer func() { s.metrics.recordOperation(opSendResetCode, err) }()

	email = account.NormalizeEmail(email)
	if err := s.policy.check(s.policy.email(email)); err != nil {
		return err
	}

	if _, err := s.find(ctx, email); err != nil {
		return err
	}

	code, err := s.codes.Generate(s.auth.CodeLength, s.auth.ResetTTL)
	if err != nil {
		return err
	}

	if err := s.deliver(ctx, email, code, PurposePasswordReset); err != nil {
		return err
	}

	_, err = s.update(context.WithoutCancel(ctx), email, func(acct account.Account) (account.Account, error) {
		return acct.WithResetCode(code), nil
	})
	return err
}

// ResetPassword consumes the reset code, replaces the password and marks the account
// verified.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) (err error) {
	defer func() { s.metrics.recordOperation(opResetPassword, err) }()

	email = account.NormalizeEmail(email)
	if err := s.policy.check(
		s.policy.email(email),
		s.policy.required(fieldCode, code),
		s.policy.newPassword(newPassword),
	); err != nil {
		return err
	}

	consumable := func(acct account.Account) bool {
		return acct.ResetCode.Matches(code) && !acct.ResetCode.Expired(s.now())
	}

	acct, err := s.find(ctx, email)
	if err != nil {
		return err
	}
	if !consumable(acct) {
		return ErrInvalidOrExpiredCode
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	reset, err := s.update(ctx, email, func(acct account.Account) (account.Account, error) {
		if !consumable(acct) {
			return account.Account{}, ErrInvalidOrExpiredCode
		}
		return acct.WithPassword(hashed), nil
	})
	if err != nil {
		return err
	}

	slog.Info("Password reset.", "account", reset)
	return nil
}

func (s *Service) find(ctx context.Context, email string) (account.Account, error) {
	acct, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return account.Account{}, ErrNotFound
		}
		return account.Account{}, fmt.Errorf("find account: %w", err)
	}
	return acct, nil
}

// update reads the account, applies mutate and saves the result. A lost compare-and-swap
// re-reads and re-applies mutate, so its precondition checks always see the latest state.
func (s *Service) update(ctx context.Context, email string, mutate func(account.Account) (account.Account, error)) (account.Account, error) {
	var saved account.Account

	backoff := retry.WithMaxRetries(s.auth.MaxUpdateRetries, retry.NewConstant(s.auth.RetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		acct, err := s.find(ctx, email)
		if err != nil {
			return err
		}

		next, err := mutate(acct)
		if err != nil {
			return err
		}

		saved, err = s.store.Save(ctx, next)
		if err != nil {
			if errors.Is(err, account.ErrConflict) {
				s.metrics.recordConflict()
				return retry.RetryableError(err)
			}
			if errors.Is(err, account.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("save account: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, account.ErrConflict) {
			return account.Account{}, fmt.Errorf("update account after %d retries: %w", s.auth.MaxUpdateRetries, err)
		}
		return account.Account{}, err
	}

	return saved, nil
}

// deliver sends code and maps any failure to EmailDeliveryFailed. The diagnostic is logged
// only.
func (s *Service) deliver(ctx context.Context, email string, code account.Code, purpose Purpose) error {
	if err := s.notifier.Notify(ctx, email, code.Value, purpose); err != nil {
		slog.Error("Failed to deliver code.",
			"purpose", purpose.String(),
			"email", account.MaskEmail(email),
			"reason", err,
		)
		return newError(KindEmailDeliveryFailed, errors.New("code delivery failed"))
	}

	s.metrics.recordCode(purpose)
	return nil
}
