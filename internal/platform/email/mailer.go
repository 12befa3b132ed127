package email

import "context"

type Mailer interface {
	SendPlain(ctx context.Context, to []string, subject, body string) error
	SendHTML(ctx context.Context, to []string, subject, tmplName string, data map[string]string) error
}
