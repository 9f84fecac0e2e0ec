package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jbweber/homelab/northwind/internal/api"
	"github.com/jbweber/homelab/northwind/internal/audit"
	"github.com/jbweber/homelab/northwind/internal/auth"
	"github.com/jbweber/homelab/northwind/internal/config"
	"github.com/jbweber/homelab/northwind/internal/domain"
	"github.com/jbweber/homelab/northwind/internal/logging"
	"github.com/jbweber/homelab/northwind/internal/metrics"
	"github.com/jbweber/homelab/northwind/internal/repository"
)

func newServeCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().Int("port", 0, "listen port")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := logging.Setup(cfg.Log)
	m := metrics.New()

	repos, closeStore, err := openRepositories(ctx, cfg, m, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close datastore", "error", err)
		}
	}()

	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return err
	}

	sinks := audit.Multi{audit.NewLogSink(logger)}
	if cfg.Audit.Persist {
		sinks = append(sinks, audit.NewStoreSink(repos.AuditLogs))
	}

	a := api.New(repos, tokens, sinks, api.Options{
		EmptyListNotFound: cfg.API.EmptyListNotFound,
		BcryptCost:        cfg.Auth.BcryptCost,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           a.Router(logger, m),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Server.Port, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// openRepositories builds the instrumented repository bundle for the
// configured driver and a function releasing it.
func openRepositories(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (*repository.Northwind, func() error, error) {
	if cfg.Database.Driver == "memory" {
		logger.Warn("using in-memory store, data is lost on exit")
		repos := repository.NewMemoryNorthwind().Instrument(m)
		if err := seedAdmin(ctx, repos.Users, cfg.Auth, logger); err != nil {
			return nil, nil, err
		}
		return repos, func() error { return nil }, nil
	}

	ds, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := ds.Migrate(ctx); err != nil {
			_ = ds.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	if err := m.RegisterDB(ds.DB.DB, cfg.Database.Driver); err != nil {
		_ = ds.Close()
		return nil, nil, err
	}

	repos := repository.NewSQLNorthwind(ds.DB, repository.WithCacheSize(cfg.Database.CacheSize)).Instrument(m)
	if err := seedAdmin(ctx, repos.Users, cfg.Auth, logger); err != nil {
		_ = ds.Close()
		return nil, nil, err
	}
	return repos, ds.Close, nil
}

// seedAdmin creates the configured bootstrap admin. An existing user of the
// same name is left untouched, whatever its role or password.
func seedAdmin(ctx context.Context, users repository.Repository[domain.User], cfg config.AuthConfig, logger *slog.Logger) error {
	if cfg.BootstrapAdmin == "" {
		return nil
	}
	found, err := users.Exists(ctx, repository.Where(repository.Eq("user_name", cfg.BootstrapAdmin)), false)
	if err != nil {
		return fmt.Errorf("failed to look up bootstrap admin: %w", err)
	}
	if found {
		logger.Debug("bootstrap admin already exists", "user", cfg.BootstrapAdmin)
		return nil
	}

	hash, err := auth.HashPassword(cfg.BootstrapPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}
	_, err = users.Create(ctx, domain.User{
		UserName:     cfg.BootstrapAdmin,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	logger.Info("created bootstrap admin", "user", cfg.BootstrapAdmin)
	return nil
}
