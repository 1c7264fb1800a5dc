package config

import (
	"fmt"
	"os"
	"strings"
)

// Config aggregates the environment-backed settings for the API process.
type Config struct {
	Database DatabaseConfig
	Auth     AuthConfig
	HTTP     HTTPConfig
}

// DatabaseConfig holds the connection string for the backing database.
// The URL scheme selects the driver.
type DatabaseConfig struct {
	URL string
}

// AuthConfig holds the secret used to sign organizer session tokens.
type AuthConfig struct {
	SigningPepper string
}

// HTTPConfig holds the listen address and the CORS origin allowlist.
// An empty allowlist means any origin is accepted.
type HTTPConfig struct {
	ListenAddr     string
	AllowedOrigins []string
}

// Load reads the environment and returns a validated Config.
func Load() (Config, error) {
	cfg := Config{
		Database: DatabaseConfig{
			URL: strings.TrimSpace(os.Getenv("DB_URL")),
		},
		Auth: AuthConfig{
			SigningPepper: strings.TrimSpace(os.Getenv("AUTH_TOKEN_SIGNING_PEPPER")),
		},
		HTTP: HTTPConfig{
			ListenAddr:     strings.TrimSpace(os.Getenv("LISTEN_ADDR")),
			AllowedOrigins: splitAndTrim(os.Getenv("CORS_ALLOW_ORIGINS")),
		},
	}

	if cfg.HTTP.ListenAddr == "" {
		cfg.HTTP.ListenAddr = ":8080"
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DB_URL is required")
	}
	if c.Auth.SigningPepper == "" {
		return fmt.Errorf("AUTH_TOKEN_SIGNING_PEPPER is required")
	}
	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
