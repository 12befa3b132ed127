package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
	StoreDriverMemory   = "memory"

	HashArgon2id = "argon2id"
	HashBcrypt   = "bcrypt"

	MailerSMTP = "smtp"
	MailerLog  = "log"

	maxCodeLength = 18
)

var ErrInvalid = errors.New("invalid config")

type App struct {
	Env      string `koanf:"env"`
	LogLevel string `koanf:"log_level"`
}

type Server struct {
	URL             string        `koanf:"url"`
	Port            int           `koanf:"port"`
	AllowedOrigin   string        `koanf:"allowed_origin"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes"`
}

type DB struct {
	Driver          string        `koanf:"driver"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	PingTimeout     time.Duration `koanf:"ping_timeout"`
}

// Store selects the account persistence backend.
type Store struct {
	Driver    string `koanf:"driver"`
	KeyPrefix string `koanf:"key_prefix"`
}

type JWT struct {
	JTILength uint32        `koanf:"jti_length"`
	Issuer    string        `koanf:"issuer"`
	TTL       time.Duration `koanf:"ttl"`
}

type Argon2 struct {
	Memory     uint32 `koanf:"memory"`
	Iterations uint32 `koanf:"iterations"`
	Threads    uint8  `koanf:"threads"`
	SaltLength uint32 `koanf:"salt_length"`
	KeyLength  uint32 `koanf:"key_length"`
}

type Hash struct {
	Algorithm  string `koanf:"algorithm"`
	BcryptCost int    `koanf:"bcrypt_cost"`
}

type Email struct {
	Sender     string `koanf:"sender"`
	SenderName string `koanf:"sender_name"`
	Mailer     string `koanf:"mailer"`
}

// Auth holds the account lifecycle policy.
type Auth struct {
	CodeLength         int           `koanf:"code_length"`
	VerificationTTL    time.Duration `koanf:"verification_ttl"`
	ResetTTL           time.Duration `koanf:"reset_ttl"`
	PasswordMinLength  int           `koanf:"password_min_length"`
	PasswordMinEntropy float64       `koanf:"password_min_entropy"`
	MaxUpdateRetries   uint64        `koanf:"max_update_retries"`
	RetryDelay         time.Duration `koanf:"retry_delay"`
}

type Config struct {
	App    *App    `koanf:"app"`
	Server *Server `koanf:"server"`
	DB     *DB     `koanf:"db"`
	Store  *Store  `koanf:"store"`
	JWT    *JWT    `koanf:"jwt"`
	Argon2 *Argon2 `koanf:"argon2"`
	Hash   *Hash   `koanf:"hash"`
	Email  *Email  `koanf:"email"`
	Auth   *Auth   `koanf:"auth"`
}

// Default returns the configuration used when neither the file nor the flags set a key.
func Default() *Config {
	return &Config{
		App: &App{
			Env:      "development",
			LogLevel: "info",
		},
		Server: &Server{
			URL:             "http://localhost",
			Port:            8888,
			AllowedOrigin:   "http://localhost:3000",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		DB: &DB{
			Driver:          "pgx",
			MaxOpenConns:    25,
			MaxIdleConns:    25,
			ConnMaxIdleTime: 5 * time.Minute,
			ConnMaxLifetime: time.Hour,
			PingTimeout:     5 * time.Second,
		},
		Store: &Store{
			Driver:    StoreDriverPostgres,
			KeyPrefix: "susi",
		},
		JWT: &JWT{
			JTILength: 32,
			Issuer:    "susi",
			TTL:       24 * time.Hour,
		},
		Argon2: &Argon2{
			Memory:     65536,
			Iterations: 3,
			Threads:    2,
			SaltLength: 16,
			KeyLength:  32,
		},
		Hash: &Hash{
			Algorithm:  HashArgon2id,
			BcryptCost: 10,
		},
		Email: &Email{
			Sender:     "noreply@localhost",
			SenderName: "Susi",
			Mailer:     MailerSMTP,
		},
		Auth: &Auth{
			CodeLength:        4,
			VerificationTTL:   3 * time.Minute,
			ResetTTL:          10 * time.Minute,
			PasswordMinLength: 6,
			MaxUpdateRetries:  3,
			RetryDelay:        10 * time.Millisecond,
		},
	}
}

// RegisterFlags adds the overridable keys to fs with defaults taken from Default.
func RegisterFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.String("app.env", def.App.Env, "application environment")
	fs.String("app.log_level", def.App.LogLevel, "log level (debug, info, warn, error)")
	fs.Int("server.port", def.Server.Port, "port to listen on")
	fs.String("server.url", def.Server.URL, "public base url")
	fs.String("store.driver", def.Store.Driver, "account store (postgres, redis, memory)")
	fs.String("hash.algorithm", def.Hash.Algorithm, "password hash algorithm (argon2id, bcrypt)")
	fs.String("email.mailer", def.Email.Mailer, "mailer (smtp, log)")
}

// Load reads the yaml file at path, applies flags from fs and finally the URL and PORT
// environment variables. An empty path skips the file.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	slog.Info("Loading config...")
	k := koanf.New(".")

	if path != "" {
		path = filepath.Clean(path)
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if fs != nil {
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := overrideWithEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Info("Config loaded.", "config_file", path, slog.Any("config", cfg))
	return cfg, nil
}

func overrideWithEnv(cfg *Config) error {
	if url, ok := os.LookupEnv("URL"); ok {
		cfg.Server.URL = url
	}

	if portStr, ok := os.LookupEnv("PORT"); ok {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("parse PORT %q: %w", portStr, err)
		}
		cfg.Server.Port = port
	}

	if env, ok := os.LookupEnv("ENV"); ok {
		cfg.App.Env = env
	}
	return nil
}

// Validate reports the first setting that the service cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverRedis, StoreDriverMemory:
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalid, c.Store.Driver)
	}

	switch c.Hash.Algorithm {
	case HashArgon2id, HashBcrypt:
	default:
		return fmt.Errorf("%w: unknown hash algorithm %q", ErrInvalid, c.Hash.Algorithm)
	}

	switch c.Email.Mailer {
	case MailerSMTP, MailerLog:
	default:
		return fmt.Errorf("%w: unknown mailer %q", ErrInvalid, c.Email.Mailer)
	}

	if c.Auth.CodeLength < 1 || c.Auth.CodeLength > maxCodeLength {
		return fmt.Errorf("%w: auth.code_length must be between 1 and %d, got %d", ErrInvalid, maxCodeLength, c.Auth.CodeLength)
	}

	if c.Auth.VerificationTTL <= 0 || c.Auth.ResetTTL <= 0 {
		return fmt.Errorf("%w: code validity must be positive", ErrInvalid)
	}

	if c.Auth.PasswordMinLength < 1 {
		return fmt.Errorf("%w: auth.password_min_length must be positive", ErrInvalid)
	}

	if c.Auth.RetryDelay <= 0 {
		return fmt.Errorf("%w: auth.retry_delay must be positive", ErrInvalid)
	}

	if c.JWT.TTL <= 0 {
		return fmt.Errorf("%w: jwt.ttl must be positive", ErrInvalid)
	}

	return nil
}

func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("app", c.App),
		slog.Any("server", c.Server),
		slog.Any("db", c.DB),
		slog.Any("store", c.Store),
		slog.Any("jwt", c.JWT),
		slog.Any("argon2", c.Argon2),
		slog.Any("hash", c.Hash),
		slog.Any("email", c.Email),
		slog.Any("auth", c.Auth),
	)
}
