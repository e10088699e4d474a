// Package config loads the service configuration from the environment. An
// optional protorh.env file is read first; variables already set in the
// environment win over the file.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// EnvFile is the dotenv file loaded by Load when present.
const EnvFile = "protorh.env"

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	SecretKey string        `env:"SECRET_KEY, required"`
	Salt      string        `env:"SALT,       required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=10m"`

	StoreDriver  string `env:"STORE_DRIVER,  default=postgres"`
	PictureDir   string `env:"PICTURE_DIR,   default=assets/picture/profiles"`
	AuditWorkers int    `env:"AUDIT_WORKERS, default=4"`

	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	AMQP     AMQPConfig
	Login    LoginConfig
}

type DatabaseConfig struct {
	URL      string `env:"DATABASE_URL"`
	User     string `env:"DATABASE_USER,     default=postgres"`
	Password string `env:"DATABASE_PASSWORD"`
	Host     string `env:"DATABASE_HOST,     default=localhost"`
	Port     string `env:"DATABASE_PORT,     default=5432"`
	Name     string `env:"DATABASE_NAME,     default=protorh"`
	SSLMode  string `env:"DATABASE_SSLMODE,  default=disable"`
}

// MongoConfig enables the MongoDB audit sink when URI is set.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=protorh"`
}

// RedisConfig enables the login limiter when Addr is set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// AMQPConfig enables the broker audit sink when URL is set.
type AMQPConfig struct {
	URL   string `env:"AMQP_URL"`
	Queue string `env:"AMQP_QUEUE, default=protorh.hr_request.events"`
}

type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

// DSN returns DATABASE_URL when set, otherwise a postgres URL assembled
// from the individual DATABASE_* settings.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads protorh.env when it exists and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read %s: %w", EnvFile, err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("config: STORE_DRIVER must be %q or %q, got %q", StoreDriverPostgres, StoreDriverMemory, c.StoreDriver)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive")
	}
	return nil
}
