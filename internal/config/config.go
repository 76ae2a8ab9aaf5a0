package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultSecret = "default_secret"

// Config holds all configuration for the application
type Config struct {
	AppMode        string `env:"APP_MODE" envDefault:"dev"`
	Port           string `env:"PORT" envDefault:"3000"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
	PublicURL      string `env:"PUBLIC_URL" envDefault:"http://localhost:5173"`
	RateLimit      RateLimitConfig
	JWT            JWTConfig
	Mock           MockConfig
	Seed           SeedConfig
	Cron           CronConfig
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret          string `env:"JWT_SECRET" envDefault:"default_secret"`
	AccessTokenMins int    `env:"ACCESS_TOKEN_MINUTES" envDefault:"60"`
}

// MockConfig controls the simulated backend latency
type MockConfig struct {
	Latency     time.Duration `env:"MOCK_LATENCY" envDefault:"300ms"`
	FailureRate float64       `env:"MOCK_FAILURE_RATE" envDefault:"0"`
}

// SeedConfig controls startup seeding
type SeedConfig struct {
	DemoData      bool   `env:"SEED_DEMO_DATA" envDefault:"true"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"Admin123"`
	DemoPassword  string `env:"DEMO_PASSWORD" envDefault:"Password123"`
}

// RateLimitConfig holds per-IP request limits per minute. Zero disables a limiter.
type RateLimitConfig struct {
	General int `env:"RATE_LIMIT" envDefault:"100"`
	Auth    int `env:"AUTH_RATE_LIMIT" envDefault:"5"`
}

// CronConfig holds background job schedules
type CronConfig struct {
	SessionPurgeSchedule string `env:"SESSION_PURGE_SCHEDULE" envDefault:"@every 15m"`
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// .env is optional; production sets real environment variables
	_ = godotenv.Load()
	return Parse(env.Options{})
}

// Parse builds the config from the environment described by opts.
func Parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.AppMode = strings.TrimSpace(cfg.AppMode)
	if cfg.AppMode != "dev" && cfg.AppMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", cfg.AppMode)
	}
	if cfg.IsProd() && cfg.JWT.Secret == defaultSecret {
		return nil, fmt.Errorf("JWT_SECRET must be set in prod mode")
	}
	if cfg.JWT.AccessTokenMins < 1 {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_MINUTES: %d", cfg.JWT.AccessTokenMins)
	}
	if cfg.RateLimit.General < 0 || cfg.RateLimit.Auth < 0 {
		return nil, fmt.Errorf("rate limits must not be negative")
	}
	if cfg.Mock.Latency < 0 {
		return nil, fmt.Errorf("invalid MOCK_LATENCY: %s", cfg.Mock.Latency)
	}
	if cfg.Mock.FailureRate < 0 || cfg.Mock.FailureRate > 1 {
		return nil, fmt.Errorf("invalid MOCK_FAILURE_RATE: %v (must be within 0..1)", cfg.Mock.FailureRate)
	}

	return &cfg, nil
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// AccessTokenTTL returns the lifetime of an access token and its session
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenMins) * time.Minute
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	if c.AllowedOrigins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:5173"
	}
	return c.AllowedOrigins
}
