package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the single configuration struct, loaded once at startup and
// injected into constructors. Nothing else in the codebase reads the
// environment.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret  string        `env:"JWT_SECRET"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL,  default=15m"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL, default=168h"`

	Postgres  PostgresConfig
	Redis     RedisConfig
	Bootstrap BootstrapConfig
}

type PostgresConfig struct {
	DSN string `env:"PG_DSN, default=postgres://localhost:5432/inventory?sslmode=disable"`
}

// BootstrapConfig seeds the first admin account on startup. When the
// password is empty, bootstrapping is skipped; an existing account with the
// configured username is never overwritten.
type BootstrapConfig struct {
	AdminUsername string `env:"BOOTSTRAP_ADMIN_USERNAME, default=admin"`
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR, default=localhost:6379"`
	DB       int           `env:"REDIS_DB,   default=0"`
	CacheTTL time.Duration `env:"REDIS_PERM_CACHE_TTL, default=30s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	return &cfg, nil
}
