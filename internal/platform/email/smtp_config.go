package email

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/ferdiebergado/susi/internal/pkg/message"
)

const (
	envSMTPHost = "SMTP_HOST"
	envSMTPPort = "SMTP_PORT"
	envSMTPUser = "SMTP_USER"
	envSMTPPass = "SMTP_PASS"
)

// SMTPConfig holds the relay credentials. They come from the environment, never from the
// config file.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

// NewSMTPConfig reads SMTP_HOST, SMTP_PORT, SMTP_USER and SMTP_PASS. All missing variables
// are reported together.
func NewSMTPConfig() (*SMTPConfig, error) {
	values := make(map[string]string, 4)
	var errs []error
	for _, name := range []string{envSMTPHost, envSMTPPort, envSMTPUser, envSMTPPass} {
		val, ok := os.LookupEnv(name)
		if !ok || val == "" {
			errs = append(errs, fmt.Errorf(message.EnvErrFmt, name))
			continue
		}
		values[name] = val
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	port, err := strconv.Atoi(values[envSMTPPort])
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("%s must be a port number, got %q", envSMTPPort, values[envSMTPPort])
	}

	return &SMTPConfig{
		Host:     values[envSMTPHost],
		Port:     port,
		User:     values[envSMTPUser],
		Password: values[envSMTPPass],
	}, nil
}

func (c *SMTPConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("host", c.Host),
		slog.Int("port", c.Port),
		slog.String("user", c.User),
		slog.String("password", "*"),
	)
}
