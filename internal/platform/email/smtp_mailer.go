package email

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/ferdiebergado/susi/internal/config"
	"gopkg.in/gomail.v2"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer delivers messages through an SMTP relay.
type SMTPMailer struct {
	dialer     dialer
	sender     string
	senderName string
	templates  templateMap
}

var _ Mailer = (*SMTPMailer)(nil)

func NewSMTPMailer(cfg *SMTPConfig, opts *config.Email, pages fs.FS) (*SMTPMailer, error) {
	tmplMap, err := parsePages(pages)
	if err != nil {
		return nil, fmt.Errorf("parse email pages: %w", err)
	}

	return &SMTPMailer{
		dialer:     gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		sender:     opts.Sender,
		senderName: opts.SenderName,
		templates:  tmplMap,
	}, nil
}

func (e *SMTPMailer) send(ctx context.Context, to []string, subject, body, contentType string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", e.sender, e.senderName)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody(contentType, body)

	if err := e.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("sending email from %q to %q: %w", e.sender, to, err)
	}

	slog.Info("Email sent.", "subject", subject)
	return nil
}

func (e *SMTPMailer) SendHTML(ctx context.Context, to []string, subject, tmplName string, data map[string]string) error {
	body, err := e.templates.render(tmplName, data)
	if err != nil {
		return err
	}

	if err := e.send(ctx, to, subject, body, "text/html"); err != nil {
		return fmt.Errorf("sending email with subject %q: %w", subject, err)
	}

	return nil
}

func (e *SMTPMailer) SendPlain(ctx context.Context, to []string, subject, body string) error {
	return e.send(ctx, to, subject, body, "text/plain")
}
