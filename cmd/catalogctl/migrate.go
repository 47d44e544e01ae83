package main

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/database"

	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withPostgres(cmd.Context(), func(db *sql.DB) error {
					return database.RunMigrations(db, a.log)
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the migration status",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withPostgres(cmd.Context(), database.GetMigrationStatus)
			},
		},
	)

	return cmd
}

func (a *app) withPostgres(parent context.Context, fn func(db *sql.DB) error) error {
	if a.cfg.Store.Backend != config.BackendPostgres {
		return fmt.Errorf("migrations apply to the postgres backend, STORE_BACKEND is %q", a.cfg.Store.Backend)
	}

	ctx, cancel := context.WithTimeout(parent, a.timeout)
	defer cancel()

	db, err := database.OpenPostgres(ctx, a.cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db)
}
