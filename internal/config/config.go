// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Development fallbacks for the admin login.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// Config is the server configuration.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080" validate:"required,numeric"`
	ContentPath string `env:"PORTFOLIO_CONTENT"`
	AssetsDir   string `env:"PORTFOLIO_ASSETS_DIR" envDefault:"public" validate:"required"`
	DBPath      string `env:"PORTFOLIO_DB_PATH" envDefault:"data/portfolio.db" validate:"required"`

	Analytics    bool `env:"PORTFOLIO_ANALYTICS" envDefault:"true"`
	CookieSecure bool `env:"PORTFOLIO_COOKIE_SECURE" envDefault:"false"`

	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	SMTP SMTP
}

// SMTP configures the contact form mailer.
type SMTP struct {
	Host    string `env:"SMTP_HOST" envDefault:"smtp.gmail.com" validate:"required,hostname_rfc1123|ip"`
	Port    string `env:"SMTP_PORT" envDefault:"587" validate:"required,numeric"`
	User    string `env:"SMTP_USER"`
	Pass    string `env:"SMTP_PASS"`
	ToEmail string `env:"TO_EMAIL" validate:"omitempty,email"`
}

// Configured reports whether credentials are present.
func (s SMTP) Configured() bool {
	return s.User != "" && s.Pass != ""
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks field formats.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// AdminCredentials returns the admin login, falling back to the development
// defaults with a warning when unset.
func (c *Config) AdminCredentials() (string, string) {
	user, pass := c.AdminUsername, c.AdminPassword
	if user == "" {
		user = DefaultAdminUsername
		log.Println("WARNING: Using default admin username. Set ADMIN_USERNAME environment variable.")
	}
	if pass == "" {
		pass = DefaultAdminPassword
		log.Println("WARNING: Using default admin password. Set ADMIN_PASSWORD environment variable.")
	}
	return user, pass
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}
