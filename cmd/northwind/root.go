package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/homelab/northwind/internal/config"
	"github.com/jbweber/homelab/northwind/internal/datastore"
)

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "northwind",
		Short:         "Northwind REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file (yaml, toml or json)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().String("db-driver", "", "database driver: sqlite, postgres or memory")
	root.PersistentFlags().String("db-path", "", "sqlite database path")
	root.PersistentFlags().String("db-dsn", "", "postgres connection string")

	load := func(cmd *cobra.Command) (*config.Config, error) {
		return config.Load(configFile, cmd.Flags())
	}

	root.AddCommand(
		newServeCmd(load),
		newMigrateCmd(load),
		newUserCmd(load),
	)
	return root
}

// loader resolves the configuration for a command invocation
type loader func(cmd *cobra.Command) (*config.Config, error)

// openStore opens the configured SQL datastore. Commands that manage
// persistent state have nothing to do against the memory driver.
func openStore(ctx context.Context, cfg *config.Config) (*datastore.Datastore, error) {
	if cfg.Database.Driver == "memory" {
		return nil, fmt.Errorf("the memory driver has no persistent store")
	}
	return datastore.Open(ctx, cfg.Database)
}
