package email

import (
	"context"
	"errors"
)

type StubMailer struct {
	SendPlainFunc func(ctx context.Context, to []string, subject, body string) error
	SendHTMLFunc  func(ctx context.Context, to []string, subject, tmplName string, data map[string]string) error
}

var _ Mailer = (*StubMailer)(nil)

func (m *StubMailer) SendPlain(ctx context.Context, to []string, subject, body string) error {
	if m.SendPlainFunc == nil {
		return errors.New("SendPlain not implemented by stub")
	}
	return m.SendPlainFunc(ctx, to, subject, body)
}

func (m *StubMailer) SendHTML(ctx context.Context, to []string, subject, tmplName string, data map[string]string) error {
	if m.SendHTMLFunc == nil {
		return errors.New("SendHTML not implemented by stub")
	}
	return m.SendHTMLFunc(ctx, to, subject, tmplName, data)
}
