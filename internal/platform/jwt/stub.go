package jwt

import (
	"errors"
	"sync"
	"time"
)

// SignCall is one recorded StubSigner.Sign invocation.
type SignCall struct {
	Subject  string
	Audience []string
	TTL      time.Duration
}

// StubSigner delegates to its Func fields and records every Sign call.
type StubSigner struct {
	SignFunc   func(subject string, audience []string, duration time.Duration) (string, error)
	VerifyFunc func(tokenString string) (*Claims, error)

	mu    sync.Mutex
	calls []SignCall
}

var _ Signer = (*StubSigner)(nil)

func (s *StubSigner) Sign(subject string, audience []string, duration time.Duration) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, SignCall{Subject: subject, Audience: audience, TTL: duration})
	s.mu.Unlock()

	if s.SignFunc == nil {
		return "", errors.New("Sign not implemented by stub")
	}
	return s.SignFunc(subject, audience, duration)
}

// SignCalls returns the Sign calls made so far, oldest first.
func (s *StubSigner) SignCalls() []SignCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SignCall(nil), s.calls...)
}

func (s *StubSigner) Verify(tokenString string) (*Claims, error) {
	if s.VerifyFunc == nil {
		return nil, errors.New("Verify not implemented by stub")
	}
	return s.VerifyFunc(tokenString)
}
