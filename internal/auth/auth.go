// Package auth implements the account lifecycle: registration, email verification, login
// and password reset, each gated by short-lived single-use numeric codes.
package auth

import "github.com/ferdiebergado/susi/internal/config"

type Module struct {
	svc     *Service
	handler *Handler
}

func (m *Module) Handler() *Handler {
	return m.handler
}

func (m *Module) Service() *Service {
	return m.svc
}

func NewModule(provider *Provider, cfg *config.Config) (*Module, error) {
	svc, err := NewService(provider, cfg)
	if err != nil {
		return nil, err
	}
	return &Module{
		svc:     svc,
		handler: NewHandler(svc),
	}, nil
}
