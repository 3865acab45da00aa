package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/aitools/internal/catalog"
	"github.com/JonMunkholm/aitools/internal/config"
	"github.com/JonMunkholm/aitools/internal/core"
	"github.com/JonMunkholm/aitools/internal/logging"
	"github.com/JonMunkholm/aitools/internal/notify"
	"github.com/JonMunkholm/aitools/internal/storage/memory"
	"github.com/JonMunkholm/aitools/internal/storage/postgres"
	"github.com/JonMunkholm/aitools/internal/storage/sqlite"
	"github.com/JonMunkholm/aitools/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg.Storage)
	if err != nil {
		slog.Error("failed to open submission store", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	cat, err := catalog.Load(cfg.Catalog.SeedFile)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog loaded", "tools", cat.Len(), "seed", seedName(cfg.Catalog.SeedFile))

	opts := core.ServiceOptions{
		Catalog:              cat,
		MaxConcurrentImports: cfg.Import.MaxConcurrent,
		MaxImportWait:        cfg.Import.MaxWaitTime,
		ImportTimeout:        cfg.Import.Timeout,
		NotifyTimeout:        cfg.Notify.Timeout,
	}
	if n := newNotifier(cfg); n != nil {
		opts.Notifier = n
		slog.Info("admin notifications enabled", "recipients", len(cfg.Notify.Recipients))
	}

	service, err := core.NewService(store, opts)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}
	service.AuditLog().Record(ctx, core.AuditLogParams{
		Action:       core.ActionCatalogSeed,
		Detail:       seedName(cfg.Catalog.SeedFile),
		RowsAffected: cat.Len(),
	})

	server := web.NewServer(service, cat, cfg)
	service.SetInvalidator(server)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.ImportLimiterStatus(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := service.WaitForImports(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore opens the configured submission store and returns its closer.
func openStore(ctx context.Context, cfg config.StorageConfig) (core.SubmissionStore, func(), error) {
	switch strings.ToLower(cfg.Backend) {
	case config.BackendPostgres:
		store, err := postgres.Connect(ctx, postgres.PoolConfig{
			URL:      cfg.DatabaseURL,
			MaxConns: int32(cfg.MaxConns),
			MinConns: int32(cfg.MinConns),
		})
		if err != nil {
			return nil, nil, err
		}
		slog.Info("connected to postgres")
		return store, store.Close, nil

	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("opened sqlite", "path", cfg.SQLitePath)
		return store, func() {
			if err := store.Close(); err != nil {
				slog.Warn("sqlite close failed", "error", err)
			}
		}, nil

	case config.BackendMemory:
		slog.Warn("using in-memory submission store; submissions are lost on restart")
		return memory.New(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

// newNotifier returns nil when notifications are not configured.
func newNotifier(cfg *config.Config) core.Notifier {
	reviewURL := ""
	if cfg.Server.PublicURL != "" {
		reviewURL = strings.TrimRight(cfg.Server.PublicURL, "/") + "/admin/submissions"
	}
	n := notify.NewResendNotifier(notify.Options{
		APIKey:     cfg.Notify.ResendAPIKey,
		From:       cfg.Notify.From,
		Recipients: cfg.Notify.Recipients,
		ReviewURL:  reviewURL,
	})
	if n == nil {
		return nil
	}
	return n
}

func seedName(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
