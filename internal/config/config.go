// Package config loads runtime settings from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// defaultSessionSecret is the development fallback; Validate refuses to
// run production with it.
const defaultSessionSecret = "your-secret-key"

// Config holds everything the server reads from the environment. A .env
// file, if present, is loaded by main before Load runs.
type Config struct {
	Port          string `envconfig:"PORT" default:"3000"`
	Environment   string `envconfig:"APP_ENV" default:"development"`
	SessionSecret string `envconfig:"SESSION_SECRET" default:"your-secret-key"`

	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	GoogleCallbackURL  string `envconfig:"GOOGLE_CALLBACK_URL" default:"/auth/google/callback"`

	// FrontendURL is where the OAuth callback redirects after login.
	// Empty means the server's own root.
	FrontendURL  string `envconfig:"FRONTEND_URL"`
	AllowOrigins string `envconfig:"ALLOW_ORIGINS" default:"http://localhost:3000"`
}

// Load reads the process environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process environment: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations that must not leave development. The
// built-in session secret is fine for local runs but signing production
// session cookies with it would let anyone forge one.
func (c Config) Validate() error {
	if c.Environment != "production" {
		return nil
	}
	if c.SessionSecret == "" || c.SessionSecret == defaultSessionSecret {
		return fmt.Errorf("SESSION_SECRET must be set to a real secret when APP_ENV is production")
	}
	return nil
}
