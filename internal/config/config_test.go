package config

import (
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable the loader reads so host settings do not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"SERVER_HOST", "SERVER_PORT", "STORAGE_BACKEND", "DATABASE_URL", "DB_URL",
		"DB_MAX_CONNS", "DB_MIN_CONNS", "SQLITE_PATH", "IMPORT_MAX_SIZE",
		"IMPORT_MAX_CONCURRENT", "IMPORT_MAX_WAIT_TIME", "IMPORT_TIMEOUT",
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_REQUESTS_PER_MINUTE", "RATE_LIMIT_IMPORT",
		"RATE_LIMIT_SUBMIT", "TRUSTED_PROXIES", "REQUIRE_ADMIN_KEY", "ADMIN_API_KEYS",
		"LOG_LEVEL", "LOG_FORMAT", "RESEND_API_KEY", "NOTIFY_FROM", "NOTIFY_ADMIN_EMAILS",
		"CATALOG_SEED_FILE", "SERVER_READ_TIMEOUT",
	} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("Storage.Backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.Import.MaxConcurrent != 4 {
		t.Errorf("Import.MaxConcurrent = %d, want %d", cfg.Import.MaxConcurrent, 4)
	}
	if cfg.Import.MaxSize != 10485760 {
		t.Errorf("Import.MaxSize = %d, want %d", cfg.Import.MaxSize, 10485760)
	}
	if cfg.Import.Timeout != 45*time.Second {
		t.Errorf("Import.Timeout = %v, want %v", cfg.Import.Timeout, 45*time.Second)
	}
	if cfg.Rate.RequestsPerMinute != 100 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 100)
	}
	if cfg.Notify.Enabled() {
		t.Error("notifications should be disabled by default")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("IMPORT_MAX_CONCURRENT", "10")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Import.MaxConcurrent != 10 {
		t.Errorf("Import.MaxConcurrent = %d, want %d", cfg.Import.MaxConcurrent, 10)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DB_URL", "postgres://localhost/alttest")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.DatabaseURL != "postgres://localhost/alttest" {
		t.Errorf("Storage.DatabaseURL = %q, want %q", cfg.Storage.DatabaseURL, "postgres://localhost/alttest")
	}
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "postgres")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("Load() error = %v, want DATABASE_URL complaint", err)
	}
}

func TestLoad_Duration(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_READ_TIMEOUT", "45s")
	t.Setenv("IMPORT_MAX_WAIT_TIME", "1m30s")
	t.Setenv("SERVER_REQUEST_TIMEOUT", "3m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Import.MaxWaitTime != 90*time.Second {
		t.Errorf("Import.MaxWaitTime = %v, want %v", cfg.Import.MaxWaitTime, 90*time.Second)
	}
	if cfg.Server.RequestTimeout != 3*time.Minute {
		t.Errorf("Server.RequestTimeout = %v, want %v", cfg.Server.RequestTimeout, 3*time.Minute)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16")
	t.Setenv("RESEND_API_KEY", "re_test")
	t.Setenv("NOTIFY_ADMIN_EMAILS", "a@example.com,,b@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if len(cfg.Security.TrustedProxies) != len(want) {
		t.Fatalf("TrustedProxies = %v, want %v", cfg.Security.TrustedProxies, want)
	}
	for i, p := range want {
		if cfg.Security.TrustedProxies[i] != p {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.Security.TrustedProxies[i], p)
		}
	}
	if len(cfg.Notify.Recipients) != 2 || !cfg.Notify.Enabled() {
		t.Errorf("Notify = %+v, want two recipients and enabled", cfg.Notify)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "not-a-number")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for invalid SERVER_PORT")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			modify:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "invalid port",
			modify:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "SERVER_PORT",
		},
		{
			name:    "unknown backend",
			modify:  func(c *Config) { c.Storage.Backend = "mongo" },
			wantErr: "STORAGE_BACKEND",
		},
		{
			name: "max conns below min",
			modify: func(c *Config) {
				c.Storage.Backend = BackendPostgres
				c.Storage.DatabaseURL = "postgres://x"
				c.Storage.MaxConns = 1
				c.Storage.MinConns = 5
			},
			wantErr: "DB_MAX_CONNS",
		},
		{
			name:    "admin key required without keys",
			modify:  func(c *Config) { c.Security.RequireAdminKey = true },
			wantErr: "ADMIN_API_KEYS",
		},
		{
			name:    "request timeout shorter than import",
			modify:  func(c *Config) { c.Server.RequestTimeout = 30 * time.Second },
			wantErr: "SERVER_REQUEST_TIMEOUT",
		},
		{
			name: "request timeout must cover slot wait",
			modify: func(c *Config) {
				c.Server.RequestTimeout = c.Import.Timeout
			},
			wantErr: "IMPORT_MAX_WAIT_TIME + IMPORT_TIMEOUT",
		},
		{
			name:    "import size zero",
			modify:  func(c *Config) { c.Import.MaxSize = 0 },
			wantErr: "IMPORT_MAX_SIZE",
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "bad log format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_StringMasksSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.DatabaseURL = "postgres://user:secret@db/aitools"
	cfg.Notify.ResendAPIKey = "re_secret"
	cfg.Security.AdminAPIKeys = []string{"k-secret"}

	s := cfg.String()
	for _, secret := range []string{"secret@db", "re_secret", "k-secret"} {
		if strings.Contains(s, secret) {
			t.Errorf("String() leaks %q: %s", secret, s)
		}
	}
}

func TestServerConfig_Addr(t *testing.T) {
	c := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := c.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q", got)
	}
	c.Host = ""
	if got := c.Addr(); got != ":8080" {
		t.Errorf("Addr() = %q", got)
	}
}

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080, ShutdownTimeout: 30 * time.Second, RequestTimeout: 2 * time.Minute},
		Storage: StorageConfig{Backend: BackendMemory, MaxConns: 10, MinConns: 2},
		Import: ImportConfig{
			MaxSize:       1024,
			MaxConcurrent: 2,
			MaxWaitTime:   time.Second,
			Timeout:       time.Minute,
		},
		Rate:    RateLimitConfig{Enabled: true, RequestsPerMinute: 100, ImportLimit: 10, SubmitLimit: 20},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}
