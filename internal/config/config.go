// Package config loads the application configuration once at startup into a
// single immutable struct. No other package reads environment variables.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// DatabaseURL is the SQLite DSN, e.g. "data/minipress.db" or ":memory:".
	DatabaseURL string `env:"DATABASE_URL, required"`

	// AppURL is the host:port the server binds to and the host part of the
	// OAuth redirect URL.
	AppURL    string `env:"APP_URL, default=localhost:8080"`
	AppDomain string `env:"APP_DOMAIN, default=localhost"`
	AppName   string `env:"APP_NAME, default=MiniPress"`

	// SecretKey signs the identity cookie. It is the sole trust anchor for
	// authorization decisions, so it must be long and random.
	SecretKey string `env:"SECRET_KEY, required"`

	LogLevel string `env:"LOG_LEVEL, default=info"`

	StaticDir   string `env:"STATIC_DIR, default=static"`
	TemplateDir string `env:"TEMPLATE_DIR, default=web/templates"`

	GitHub GitHubConfig
	TLS    TLSConfig
}

type GitHubConfig struct {
	ClientID     string `env:"GITHUB_CLIENT_ID, required"`
	ClientSecret string `env:"GITHUB_CLIENT_SECRET, required"`
	AuthURL      string `env:"GITHUB_AUTH_URL, default=https://github.com/login/oauth/authorize"`
	TokenURL     string `env:"GITHUB_TOKEN_URL, default=https://github.com/login/oauth/access_token"`
	APIURL       string `env:"GITHUB_API_URL, default=https://api.github.com"`
	CallbackPath string `env:"GITHUB_CALLBACK_URL, default=/auth/callback"`
}

type TLSConfig struct {
	KeyFile  string `env:"SSL_PRIVATE_KEY"`
	CertFile string `env:"SSL_CERTIFICATE_CHAIN"`
}

// Enabled reports whether TLS material was configured.
func (t TLSConfig) Enabled() bool {
	return t.KeyFile != "" && t.CertFile != ""
}

// Load reads an optional .env file and then the process environment.
// Missing required values or an invalid callback path abort startup.
func Load(ctx context.Context) (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if !strings.HasPrefix(cfg.GitHub.CallbackPath, "/") || len(cfg.GitHub.CallbackPath) <= 2 {
		return nil, fmt.Errorf("config: GITHUB_CALLBACK_URL must be a path starting with / (got %q)", cfg.GitHub.CallbackPath)
	}
	if len(cfg.SecretKey) < 16 {
		return nil, fmt.Errorf("config: SECRET_KEY must be at least 16 characters")
	}

	return &cfg, nil
}

// RedirectURL is the absolute OAuth callback URL registered with the provider.
func (c *Config) RedirectURL() string {
	scheme := "http"
	if c.TLS.Enabled() {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s", scheme, c.AppURL, c.GitHub.CallbackPath)
}
