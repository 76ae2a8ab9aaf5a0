package config

import (
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
)

func parse(vars map[string]string) (*Config, error) {
	return Parse(env.Options{Environment: vars})
}

func TestParseDefaults(t *testing.T) {
	cfg, err := parse(map[string]string{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.AppMode != "dev" || cfg.Port != "3000" {
		t.Errorf("mode/port = %s/%s", cfg.AppMode, cfg.Port)
	}
	if cfg.Mock.Latency != 300*time.Millisecond {
		t.Errorf("Mock.Latency = %v, want 300ms", cfg.Mock.Latency)
	}
	if !cfg.Seed.DemoData || cfg.Seed.AdminPassword != "Admin123" {
		t.Errorf("Seed = %+v", cfg.Seed)
	}
	if cfg.AccessTokenTTL() != time.Hour {
		t.Errorf("AccessTokenTTL() = %v, want 1h", cfg.AccessTokenTTL())
	}
	if cfg.GetAllowedOrigins() != "*" {
		t.Errorf("GetAllowedOrigins() = %q, want *", cfg.GetAllowedOrigins())
	}
}

func TestParseOverrides(t *testing.T) {
	cfg, err := parse(map[string]string{
		"APP_MODE":               "prod",
		"PORT":                   "8080",
		"JWT_SECRET":             "s3cret",
		"MOCK_LATENCY":           "0s",
		"MOCK_FAILURE_RATE":      "0.25",
		"SEED_DEMO_DATA":         "false",
		"SESSION_PURGE_SCHEDULE": "@hourly",
		"ALLOWED_ORIGINS":        "https://portal.example.gov.gh",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !cfg.IsProd() || cfg.Port != "8080" || cfg.Mock.Latency != 0 || cfg.Mock.FailureRate != 0.25 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Seed.DemoData {
		t.Error("Seed.DemoData should be false")
	}
	if cfg.Cron.SessionPurgeSchedule != "@hourly" {
		t.Errorf("SessionPurgeSchedule = %q", cfg.Cron.SessionPurgeSchedule)
	}
	if cfg.GetAllowedOrigins() != "https://portal.example.gov.gh" {
		t.Errorf("GetAllowedOrigins() = %q", cfg.GetAllowedOrigins())
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want string
	}{
		{"bad mode", map[string]string{"APP_MODE": "staging"}, "invalid APP_MODE"},
		{"prod default secret", map[string]string{"APP_MODE": "prod"}, "JWT_SECRET"},
		{"failure rate", map[string]string{"MOCK_FAILURE_RATE": "1.5"}, "MOCK_FAILURE_RATE"},
		{"token minutes", map[string]string{"ACCESS_TOKEN_MINUTES": "0"}, "ACCESS_TOKEN_MINUTES"},
		{"unparseable latency", map[string]string{"MOCK_LATENCY": "soon"}, "parse env"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(tt.vars)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Parse() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
