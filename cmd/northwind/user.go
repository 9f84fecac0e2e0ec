package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jbweber/homelab/northwind/internal/auth"
	"github.com/jbweber/homelab/northwind/internal/domain"
	"github.com/jbweber/homelab/northwind/internal/repository"
)

func newUserCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage API users",
	}

	var name, password, role string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if role != domain.RoleAdmin && role != domain.RoleCustomer {
				return fmt.Errorf("role must be %s or %s", domain.RoleAdmin, domain.RoleCustomer)
			}
			if len(password) < 8 {
				return fmt.Errorf("password must be at least 8 characters")
			}
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

			hash, err := auth.HashPassword(password, cfg.Auth.BcryptCost)
			if err != nil {
				return err
			}
			users := repository.NewSQLRepository[domain.User](ds.DB)
			user, err := users.Create(cmd.Context(), domain.User{
				UserName:     name,
				PasswordHash: hash,
				Role:         role,
				CreatedAt:    time.Now().UTC(),
			})
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("user %q already exists", name)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d, role %s)\n", user.UserName, user.ID, user.Role)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "user name")
	create.Flags().StringVar(&password, "password", "", "password, at least 8 characters")
	create.Flags().StringVar(&role, "role", domain.RoleCustomer, "role: Admin or Customer")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}
