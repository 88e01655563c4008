// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `env:"PORT" env-default:"8080"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `env:"DATABASE_URL"`

	// RedisURL points at the store for login rate limits and revoked sessions.
	RedisURL string `env:"REDIS_URL" env-default:"redis://localhost:6379/0"`

	// LogLevel controls the minimum log level.
	// Valid values: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`

	// BaseURL is the public address used to build links in emails.
	BaseURL string `env:"BASE_URL" env-default:"http://localhost:8080"`

	// TrustedProxies lists the reverse proxies (addresses or CIDR ranges)
	// whose X-Forwarded-For and X-Real-IP headers are believed. Empty means
	// the socket address is always the client address.
	TrustedProxies []string `env:"TRUSTED_PROXIES" env-separator:","`

	// MetricsAddr is the separate listener serving /metrics. Keep it off the
	// public network.
	MetricsAddr string `env:"METRICS_ADDR" env-default:"127.0.0.1:9090"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" env-default:"1048576"`

	Auth AuthConfig
	Mail MailConfig
}

type AuthConfig struct {
	// JWTSecret signs session tokens. Required.
	JWTSecret       string        `env:"JWT_SECRET"`
	SessionTTL      time.Duration `env:"SESSION_TTL" env-default:"24h"`
	VerificationTTL time.Duration `env:"VERIFICATION_TTL" env-default:"24h"`
	CookieSecure    bool          `env:"COOKIE_SECURE" env-default:"true"`
	BcryptCost      int           `env:"BCRYPT_COST" env-default:"12"`
	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT" env-default:"10"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" env-default:"10m"`
}

// MailConfig holds the SMTP settings. With no Username set, verification
// links are logged instead of mailed.
type MailConfig struct {
	Server   string `env:"MAIL_SERVER" env-default:"smtp.gmail.com"`
	Port     int    `env:"MAIL_PORT" env-default:"587"`
	Username string `env:"MAIL_USERNAME"`
	Password string `env:"MAIL_PASSWORD"`
	From     string `env:"MAIL_FROM"`
}

// Load reads an optional .env file from the working directory, then the
// environment, and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)
	cfg.TrustedProxies = trimAll(cfg.TrustedProxies)
	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.Username
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// MailEnabled reports whether SMTP credentials are configured.
func (c Config) MailEnabled() bool {
	return c.Mail.Username != ""
}

// trimAll trims every entry, dropping empty ones.
func trimAll(in []string) []string {
	var out []string
	for _, part := range in {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Usage describes every variable Load reads, for --help output.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return err.Error()
	}
	return text
}

