package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr      string        `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath        string        `env:"DB_PATH" envDefault:"data/ethnoguessr.db"`
	LogLevel      slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir        string        `env:"SPA_DIR" envDefault:"../web/dist"`
	RedisURL      string        `env:"REDIS_URL"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"6h"`
	PublicURL     string        `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`
	AdminEmail    string        `env:"ADMIN_EMAIL" envDefault:"admin@ethnoguessr.local"`
	AdminPassword string        `env:"ADMIN_PASSWORD" envDefault:"changeme"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	return &cfg, nil
}
