// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Import   ImportConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Notify   NotifyConfig
	Catalog  CatalogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"2m"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including draining imports (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// PublicURL is the externally visible base URL, used in notification links
	PublicURL string `env:"SERVER_PUBLIC_URL"`
}

// StorageConfig selects and configures the submission store.
type StorageConfig struct {
	// Backend is memory, postgres or sqlite (default: memory)
	Backend string `env:"STORAGE_BACKEND" default:"memory"`

	// DatabaseURL is the PostgreSQL connection string (postgres backend)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of pooled connections (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// SQLitePath is the database file for the sqlite backend (default: aitools.db)
	SQLitePath string `env:"SQLITE_PATH" default:"aitools.db"`
}

// ImportConfig holds bulk import settings.
type ImportConfig struct {
	// MaxSize is the largest accepted payload in bytes (default: 10MB)
	MaxSize int64 `env:"IMPORT_MAX_SIZE" default:"10485760"`

	// MaxConcurrent is the maximum number of parallel imports (default: 4)
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long to wait for an import slot (default: 10s)
	MaxWaitTime time.Duration `env:"IMPORT_MAX_WAIT_TIME" default:"10s"`

	// Timeout is the maximum duration of a single import (default: 45s).
	// SERVER_REQUEST_TIMEOUT must cover MaxWaitTime plus Timeout.
	Timeout time.Duration `env:"IMPORT_TIMEOUT" default:"45s"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// ImportLimit is requests per minute for import endpoints (default: 10)
	ImportLimit int `env:"RATE_LIMIT_IMPORT" default:"10"`

	// SubmitLimit is requests per minute for the public submit endpoint (default: 20)
	SubmitLimit int `env:"RATE_LIMIT_SUBMIT" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAdminKey guards /api/admin and /admin with an API key (default: false)
	RequireAdminKey bool `env:"REQUIRE_ADMIN_KEY" default:"false"`

	// AdminAPIKeys is a comma-separated list of accepted admin keys
	AdminAPIKeys []string `env:"ADMIN_API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// NotifyConfig holds admin email notification settings.
// Notifications are disabled unless both an API key and recipients are set.
type NotifyConfig struct {
	ResendAPIKey string        `env:"RESEND_API_KEY"`
	From         string        `env:"NOTIFY_FROM" default:"AI Tools <noreply@example.com>"`
	Recipients   []string      `env:"NOTIFY_ADMIN_EMAILS"`
	Timeout      time.Duration `env:"NOTIFY_TIMEOUT" default:"10s"`
}

// Enabled reports whether notifications will be sent.
func (n NotifyConfig) Enabled() bool {
	return n.ResendAPIKey != "" && len(n.Recipients) > 0
}

// CatalogConfig holds tool catalog settings.
type CatalogConfig struct {
	// SeedFile is a YAML seed replacing the built-in tool list
	SeedFile string `env:"CATALOG_SEED_FILE"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
