package config

import (
	"errors"
	"fmt"
	"time"

	"rpg_tracker/internal/logger"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	AppPort     string `env:"APP_PORT" envDefault:"8080"`
	Storage     string `env:"STORAGE" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	JWTSecret   string `env:"JWT_SECRET,notEmpty"`

	// Redis нужен для rate limit и отзыва токенов, без него работаем in-memory
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	DiscordClientID     string `env:"DISCORD_CLIENT_ID"`
	DiscordClientSecret string `env:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURL  string `env:"DISCORD_REDIRECT_URL"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"LOG_JSON" envDefault:"false"`

	// Лимиты запросов
	RateLimit       int           `env:"RATE_LIMIT" envDefault:"120"`
	RateWindow      time.Duration `env:"RATE_WINDOW" envDefault:"1m"`
	AuthRateLimit   int           `env:"AUTH_RATE_LIMIT" envDefault:"10"`
	AuthRateWindow  time.Duration `env:"AUTH_RATE_WINDOW" envDefault:"1m"`
	TrainRateLimit  int           `env:"TRAIN_RATE_LIMIT" envDefault:"30"`
	TrainRateWindow time.Duration `env:"TRAIN_RATE_WINDOW" envDefault:"1m"`

	CookieSecure  bool   `env:"COOKIE_SECURE" envDefault:"false"`
	AllowedOrigin string `env:"ALLOWED_ORIGIN"`
	FrontendDir   string `env:"FRONTEND_DIR"`
}

// DiscordEnabled reports whether Discord sign-in is configured.
func (c *Config) DiscordEnabled() bool {
	return c.DiscordClientID != "" && c.DiscordClientSecret != "" && c.DiscordRedirectURL != ""
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is not set")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q", c.Storage)
	}
	if c.RateLimit <= 0 || c.AuthRateLimit <= 0 || c.TrainRateLimit <= 0 {
		return errors.New("rate limits must be positive")
	}
	if c.RateWindow <= 0 || c.AuthRateWindow <= 0 || c.TrainRateWindow <= 0 {
		return errors.New("rate windows must be positive")
	}
	return nil
}

// Parse reads the config from the environment without touching .env.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Загрузка конфига из .env и env
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := Parse()
	if err != nil {
		logger.Fatal("invalid config", "error", err)
	}
	return cfg
}
