package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/ferdiebergado/susi/internal/config"
	"github.com/ferdiebergado/susi/internal/platform/email"
)

// Purpose tells the notifier which message a code belongs to.
type Purpose int

const (
	PurposeVerification Purpose = iota + 1
	PurposePasswordReset
)

func (p Purpose) String() string {
	switch p {
	case PurposeVerification:
		return "verification"
	case PurposePasswordReset:
		return "password_reset"
	default:
		return fmt.Sprintf("Purpose(%d)", int(p))
	}
}

// Notifier delivers a code to an address.
type Notifier interface {
	Notify(ctx context.Context, address, code string, purpose Purpose) error
}

type mailTemplate struct {
	subject, template string
	validity          time.Duration
}

// MailNotifier sends codes as HTML email.
type MailNotifier struct {
	mailer    email.Mailer
	templates map[Purpose]mailTemplate
}

var _ Notifier = (*MailNotifier)(nil)

func NewMailNotifier(mailer email.Mailer, cfg *config.Auth) *MailNotifier {
	return &MailNotifier{
		mailer: mailer,
		templates: map[Purpose]mailTemplate{
			PurposeVerification: {
				subject:  "Email Verification",
				template: "verification",
				validity: cfg.VerificationTTL,
			},
			PurposePasswordReset: {
				subject:  "Password Reset Code",
				template: "password_reset",
				validity: cfg.ResetTTL,
			},
		},
	}
}

func (n *MailNotifier) Notify(ctx context.Context, address, code string, purpose Purpose) error {
	tmpl, ok := n.templates[purpose]
	if !ok {
		return fmt.Errorf("no email template for purpose %s", purpose)
	}

	data := map[string]string{
		"Title":    tmpl.subject,
		"Code":     code,
		"Validity": tmpl.validity.String(),
	}

	if err := n.mailer.SendHTML(ctx, []string{address}, tmpl.subject, tmpl.template, data); err != nil {
		return fmt.Errorf("send %s email: %w", purpose, err)
	}
	return nil
}
