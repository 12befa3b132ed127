package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ferdiebergado/susi/internal/account"
	"github.com/ferdiebergado/susi/internal/config"
	"github.com/ferdiebergado/susi/internal/platform/db"
	"github.com/ferdiebergado/susi/internal/platform/email"
	"github.com/ferdiebergado/susi/internal/platform/hash"
	"github.com/ferdiebergado/susi/internal/platform/jwt"
	"github.com/ferdiebergado/susi/internal/platform/router"
	"github.com/ferdiebergado/susi/internal/platform/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

const envRedisURL = "REDIS_URL"

type Provider struct {
	Store     account.Store
	Signer    jwt.Signer
	Mailer    email.Mailer
	Validator validation.Validator
	Hasher    hash.Hasher
	Router    router.Router
	Registry  *prometheus.Registry

	closers []io.Closer
}

// NewProvider builds every collaborator selected by cfg. securityKey signs session tokens
// and peppers argon2 hashes.
func NewProvider(ctx context.Context, cfg *config.Config, securityKey string) (*Provider, error) {
	signer, err := jwt.NewGolangJWTSigner(cfg.JWT, securityKey)
	if err != nil {
		return nil, fmt.Errorf("new jwt signer: %w", err)
	}

	hasher, err := hash.New(cfg.Hash, cfg.Argon2, securityKey)
	if err != nil {
		return nil, fmt.Errorf("new hasher: %w", err)
	}

	mailer, err := newMailer(cfg.Email)
	if err != nil {
		return nil, err
	}

	provider := &Provider{
		Signer:    signer,
		Mailer:    mailer,
		Validator: validation.NewGoPlaygroundValidator(),
		Hasher:    hasher,
		Router:    router.NewGoexpressRouter(),
		Registry:  newRegistry(),
	}

	store, closer, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	provider.Store = store
	if closer != nil {
		provider.closers = append(provider.closers, closer)
	}

	return provider, nil
}

// Close releases the connections opened by NewProvider.
func (p *Provider) Close() error {
	var errs []error
	for _, c := range p.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func newStore(ctx context.Context, cfg *config.Config) (account.Store, io.Closer, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		conn, err := db.NewConnection(ctx, cfg.DB, db.DSNFromEnv())
		if err != nil {
			return nil, nil, err
		}
		return account.NewPostgresStore(conn), conn, nil

	case config.StoreDriverRedis:
		opts, err := redis.ParseURL(os.Getenv(envRedisURL))
		if err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", envRedisURL, err)
		}
		client := redis.NewClient(opts)

		pingCtx, cancel := context.WithTimeout(ctx, cfg.DB.PingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		return account.NewRedisStore(client, cfg.Store.KeyPrefix), client, nil

	case config.StoreDriverMemory:
		return account.NewMemoryStore(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

func newMailer(cfg *config.Email) (email.Mailer, error) {
	switch cfg.Mailer {
	case config.MailerSMTP:
		smtpCfg, err := email.NewSMTPConfig()
		if err != nil {
			return nil, fmt.Errorf("smtp config: %w", err)
		}
		mailer, err := email.NewSMTPMailer(smtpCfg, cfg, email.DefaultTemplates())
		if err != nil {
			return nil, fmt.Errorf("new smtp mailer: %w", err)
		}
		slog.Info("SMTP mailer ready.", "smtp", smtpCfg)
		return mailer, nil

	case config.MailerLog:
		mailer, err := email.NewLogMailer(email.DefaultTemplates())
		if err != nil {
			return nil, fmt.Errorf("new log mailer: %w", err)
		}
		return mailer, nil

	default:
		return nil, fmt.Errorf("unsupported mailer %q", cfg.Mailer)
	}
}

func newRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return registry
}
