package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	appenv "github.com/garrettladley/titohook/internal/env"
)

type DedupeBackend string

const (
	DedupeBackendPostgres DedupeBackend = "postgres"
	DedupeBackendRedis    DedupeBackend = "redis"
	DedupeBackendSQLite   DedupeBackend = "sqlite"
	DedupeBackendMemory   DedupeBackend = "memory"
)

type Config struct {
	Port string             `env:"PORT" envDefault:"8080" validate:"required,numeric"`
	Env  appenv.Environment `env:"ENV" envDefault:"development" validate:"oneof=development production"`

	Tito      TitoConfig      `envPrefix:"TITO_"`
	Dedupe    DedupeConfig    `envPrefix:"DEDUPE_"`
	Database  DatabaseConfig  `envPrefix:"DATABASE_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	Queue     QueueConfig     `envPrefix:"QUEUE_"`
	Agenda    AgendaConfig    `envPrefix:"AGENDA_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_"`
}

type TitoConfig struct {
	// WebhookSecret empty means the webhook endpoint answers 404.
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type DedupeConfig struct {
	Backend    DedupeBackend `env:"BACKEND" envDefault:"postgres" validate:"oneof=postgres redis sqlite memory"`
	SQLitePath string        `env:"SQLITE_PATH" envDefault:"titohook.db"`
	TTL        time.Duration `env:"TTL" envDefault:"0s" validate:"gte=0s"`
}

type DatabaseConfig struct {
	URL string `env:"URL"`
}

type RedisConfig struct {
	URL string `env:"URL"`
}

type QueueConfig struct {
	Order  string `env:"ORDER" envDefault:"order-notifications" validate:"required,nefield=Ticket"`
	Ticket string `env:"TICKET" envDefault:"ticket-notifications" validate:"required"`
}

type AgendaConfig struct {
	AvailableFrom time.Time `env:"AVAILABLE_FROM"`
}

type RateLimitConfig struct {
	Limit float64 `env:"LIMIT" envDefault:"10" validate:"gt=0"`
	Burst int     `env:"BURST" envDefault:"20" validate:"gte=1"`

	// TrustedProxyHops is how many reverse proxies append to X-Forwarded-For
	// in front of the server. Zero keys the limit on the peer address.
	TrustedProxyHops int `env:"TRUSTED_PROXY_HOPS" envDefault:"0" validate:"gte=0,lte=8"`
}

func Read() (Config, error) {
	return ReadWithOptions(env.Options{})
}

// ReadWithOptions parses the environment and checks that the selected backends are wired.
func ReadWithOptions(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch c.Dedupe.Backend {
	case DedupeBackendPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for dedupe backend %q", c.Dedupe.Backend)
		}
	case DedupeBackendRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required for dedupe backend %q", c.Dedupe.Backend)
		}
	case DedupeBackendSQLite:
		if c.Dedupe.SQLitePath == "" {
			return fmt.Errorf("DEDUPE_SQLITE_PATH is required for dedupe backend %q", c.Dedupe.Backend)
		}
	case DedupeBackendMemory:
		if c.Env.IsProduction() {
			return fmt.Errorf("dedupe backend %q is not allowed in %s", c.Dedupe.Backend, c.Env)
		}
	}
	return nil
}
