package email

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
)

// LogMailer renders messages and writes them to the log instead of sending them.
type LogMailer struct {
	templates templateMap
}

var _ Mailer = (*LogMailer)(nil)

func NewLogMailer(pages fs.FS) (*LogMailer, error) {
	tmplMap, err := parsePages(pages)
	if err != nil {
		return nil, fmt.Errorf("parse email pages: %w", err)
	}
	return &LogMailer{templates: tmplMap}, nil
}

func (l *LogMailer) SendHTML(ctx context.Context, to []string, subject, tmplName string, data map[string]string) error {
	body, err := l.templates.render(tmplName, data)
	if err != nil {
		return err
	}
	return l.SendPlain(ctx, to, subject, body)
}

func (l *LogMailer) SendPlain(ctx context.Context, to []string, subject, body string) error {
	slog.InfoContext(ctx, "Email not sent, log mailer in use.", "to", to, "subject", subject, "body", body)
	return nil
}
