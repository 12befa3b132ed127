package auth

import (
	"context"
	"errors"

	"github.com/ferdiebergado/susi/internal/account"
)

type StubService struct {
	RegisterFunc           func(ctx context.Context, email, password string) (account.Account, error)
	ResendVerificationFunc func(ctx context.Context, email string) error
	VerifyEmailFunc        func(ctx context.Context, email, code string) error
	LoginFunc              func(ctx context.Context, email, password string) (Session, error)
	SendResetCodeFunc      func(ctx context.Context, email string) error
	ResetPasswordFunc      func(ctx context.Context, email, code, newPassword string) error
}

var _ AccountService = (*StubService)(nil)

func (s *StubService) Register(ctx context.Context, email, password string) (account.Account, error) {
	if s.RegisterFunc == nil {
		return account.Account{}, errors.New("Register not implemented by stub")
	}
	return s.RegisterFunc(ctx, email, password)
}

func (s *StubService) ResendVerification(ctx context.Context, email string) error {
	if s.ResendVerificationFunc == nil {
		return errors.New("ResendVerification not implemented by stub")
	}
	return s.ResendVerificationFunc(ctx, email)
}

func (s *StubService) VerifyEmail(ctx context.Context, email, code string) error {
	if s.VerifyEmailFunc == nil {
		return errors.New("VerifyEmail not implemented by stub")
	}
	return s.VerifyEmailFunc(ctx, email, code)
}

func (s *StubService) Login(ctx context.Context, email, password string) (Session, error) {
	if s.LoginFunc == nil {
		return Session{}, errors.New("Login not implemented by stub")
	}
	return s.LoginFunc(ctx, email, password)
}

func (s *StubService) SendResetCode(ctx context.Context, email string) error {
	if s.SendResetCodeFunc == nil {
		return errors.New("SendResetCode not implemented by stub")
	}
	return s.SendResetCodeFunc(ctx, email)
}

func (s *StubService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if s.ResetPasswordFunc == nil {
		return errors.New("ResetPassword not implemented by stub")
	}
	return s.ResetPasswordFunc(ctx, email, code, newPassword)
}

type StubNotifier struct {
	NotifyFunc func(ctx context.Context, address, code string, purpose Purpose) error
}

var _ Notifier = (*StubNotifier)(nil)

func (n *StubNotifier) Notify(ctx context.Context, address, code string, purpose Purpose) error {
	if n.NotifyFunc == nil {
		return errors.New("Notify not implemented by stub")
	}
	return n.NotifyFunc(ctx, address, code, purpose)
}
