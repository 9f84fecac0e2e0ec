package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newMigrateCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			ds, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer ds.Close()

			if err := ds.Migrate(cmd.Context()); err != nil {
				return err
			}
			version, err := ds.Migrator().GetCurrentVersion(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			ds, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer ds.Close()

			migrator := ds.Migrator()
			if err := migrator.Rollback(cmd.Context()); err != nil {
				return err
			}
			version, err := migrator.GetCurrentVersion(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			ds, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer ds.Close()

			statuses, err := ds.Migrator().Status(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VERSION\tNAME\tAPPLIED")
			for _, s := range statuses {
				fmt.Fprintf(tw, "%d\t%s\t%t\n", s.Version, s.Name, s.Applied)
			}
			return tw.Flush()
		},
	})
	return cmd
}
