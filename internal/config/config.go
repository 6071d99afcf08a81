package config

import (
	"fmt"

	"github.com/caarlos0/env"
)

type Config struct {
	// Database
	DatabaseURL string `env:"DATABASE_URL"`

	// Supabase storage
	SupabaseURL           string `env:"SUPABASE_URL"`
	SupabaseServiceKey    string `env:"SUPABASE_SERVICE_KEY"`
	SupabaseStorageBucket string `env:"SUPABASE_STORAGE_BUCKET" envDefault:"deliverables"`

	// Admin auth. Empty disables the guard (development mode).
	AdminJWTSecret string `env:"ADMIN_JWT_SECRET"`

	// Server
	Port               string   `env:"PORT" envDefault:"8080"`
	Environment        string   `env:"ENVIRONMENT" envDefault:"development"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	TempDir            string   `env:"TEMP_DIR" envDefault:"temp"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate fails fast at startup so missing credentials never surface as an
// opaque error mid-request.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	return nil
}
