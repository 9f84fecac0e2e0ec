package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/homelab/northwind/internal/auth"
	"github.com/jbweber/homelab/northwind/internal/config"
	"github.com/jbweber/homelab/northwind/internal/domain"
	"github.com/jbweber/homelab/northwind/internal/metrics"
	"github.com/jbweber/homelab/northwind/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryRepository[domain.User]()
	cfg := config.AuthConfig{BcryptCost: 4, BootstrapAdmin: "root", BootstrapPassword: "s3cret-pass"}

	require.NoError(t, seedAdmin(ctx, users, cfg, discardLogger()))

	admin, err := users.Get(ctx, repository.Where(repository.Eq("user_name", "root")), false)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.NoError(t, auth.CheckPassword(admin.PasswordHash, "s3cret-pass"))

	// a restart with a different password keeps the stored user
	cfg.BootstrapPassword = "changed-pass"
	require.NoError(t, seedAdmin(ctx, users, cfg, discardLogger()))
	all, err := users.GetAll(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.NoError(t, auth.CheckPassword(all[0].PasswordHash, "s3cret-pass"))
}

func TestSeedAdmin_Disabled(t *testing.T) {
	users := repository.NewMemoryRepository[domain.User]()

	require.NoError(t, seedAdmin(context.Background(), users, config.AuthConfig{BcryptCost: 4}, discardLogger()))

	all, err := users.GetAll(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestOpenRepositories_MemoryDriverHasAdmin(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Database.Driver = "memory"
	cfg.Auth.BcryptCost = 4
	cfg.Auth.BootstrapAdmin = "root"
	cfg.Auth.BootstrapPassword = "s3cret-pass"

	repos, closeStore, err := openRepositories(context.Background(), cfg, metrics.New(), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeStore() })

	ok, err := repos.Users.Exists(context.Background(),
		repository.Where(repository.Eq("user_name", "root"), repository.Eq("role", domain.RoleAdmin)), false)
	require.NoError(t, err)
	assert.True(t, ok)
}
