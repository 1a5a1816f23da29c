// Package config loads application configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the full application configuration. An empty DatabaseURL selects
// the in-memory store; an empty OIDCIssuer disables SSO.
type Config struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	WebDir      string `env:"WEB_DIR" envDefault:"web"`
	DatabaseURL string `env:"DATABASE_URL"`

	OIDCIssuer       string `env:"OIDC_ISSUER"`
	OIDCClientID     string `env:"OIDC_CLIENT_ID"`
	OIDCClientSecret string `env:"OIDC_CLIENT_SECRET"`
	OIDCRedirectURL  string `env:"OIDC_REDIRECT_URL"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
