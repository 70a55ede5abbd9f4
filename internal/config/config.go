// Package config handles application configuration loading from environment
// variables into a typed struct. It provides a centralized Config used
// across the application.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"APP_PORT" envDefault:"8080"`
	Env  string `env:"APP_ENV" envDefault:"development"` // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	DBPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	DBUser     string `env:"POSTGRES_USER" envDefault:"leadpress"`
	DBPassword string `env:"POSTGRES_PASSWORD" envDefault:"changeme"`
	DBName     string `env:"POSTGRES_DB" envDefault:"leadpress"`

	// Valkey (Redis-compatible session store)
	ValkeyHost     string `env:"VALKEY_HOST" envDefault:"localhost"`
	ValkeyPort     string `env:"VALKEY_PORT" envDefault:"6379"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`

	// SMTP for intake notification email
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	FromEmail    string `env:"FROM_EMAIL" envDefault:"noreply@waqasriaz.com"`
	AdminEmail   string `env:"ADMIN_EMAIL" envDefault:"hello@waqasriaz.com"`

	// S3-compatible object storage for featured images
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET" envDefault:"leadpress-media"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`

	// Initial admin account, created by the dev seed
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// Load reads configuration from environment variables, applying defaults
// for development. Returns an error if critical values are missing in
// production mode.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}
