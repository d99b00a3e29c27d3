package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// MemoryDSN selects the in-memory store instead of SQLite.
const MemoryDSN = "memory"

// Config keeps runtime settings for the web app.
type Config struct {
	HTTPAddr            string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:5000"`
	DatabaseURL         string        `env:"DATABASE_URL" envDefault:"tasks.db"`
	SessionSecret       string        `env:"SESSION_SECRET"`
	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CookieSecure        bool          `env:"COOKIE_SECURE" envDefault:"false"`
	DigestIntervalHours int           `env:"DIGEST_INTERVAL_HOURS" envDefault:"0"`
	DigestAt            string        `env:"DIGEST_AT"`
	ShutdownTimeout     time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.SessionSecret = strings.TrimSpace(cfg.SessionSecret)
	cfg.DigestAt = strings.TrimSpace(cfg.DigestAt)

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "tasks.db"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.DigestIntervalHours < 0 {
		cfg.DigestIntervalHours = 0
	}

	if cfg.SessionSecret == "" {
		return cfg, fmt.Errorf("SESSION_SECRET is required")
	}

	return cfg, nil
}

// DigestInterval is zero when the digest job is disabled.
func (c Config) DigestInterval() time.Duration {
	return time.Duration(c.DigestIntervalHours) * time.Hour
}

// UsesMemoryStore reports whether DATABASE_URL selects the in-memory store.
func (c Config) UsesMemoryStore() bool {
	return strings.EqualFold(c.DatabaseURL, MemoryDSN)
}
