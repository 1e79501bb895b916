package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/unistore/database/seeders"
	"github.com/shashiranjanraj/unistore/internal/server"
	"github.com/shashiranjanraj/unistore/pkg/migration"
)

// withRunner opens the Mongo store, hands a migration runner to fn and
// disconnects afterwards.
func withRunner(cmd *cobra.Command, fn func(ctx context.Context, r *migration.Runner) error) error {
	ctx := cmd.Context()
	stores, err := server.OpenStores(ctx)
	if err != nil {
		return err
	}
	defer stores.Close(context.Background()) //nolint:errcheck

	db, err := stores.RequireDB(cmd.Name())
	if err != nil {
		return err
	}
	return fn(ctx, migration.New(db.DB(), cmd.OutOrStdout()))
}

// unistore migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd, func(ctx context.Context, r *migration.Runner) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
			return r.Run(ctx)
		})
	},
}

// unistore migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd, func(ctx context.Context, r *migration.Runner) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
			return r.Rollback(ctx)
		})
	},
}

// unistore migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(cmd, func(ctx context.Context, r *migration.Runner) error {
			return r.Status(ctx)
		})
	},
}

// unistore seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the catalogue with demo data",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		stores, err := server.OpenStores(ctx)
		if err != nil {
			return err
		}
		defer stores.Close(context.Background()) //nolint:errcheck

		fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
		return seeders.RunAll(ctx, seeders.Repos{
			Categories: stores.Categories,
			Products:   stores.Products,
		}, cmd.OutOrStdout())
	},
}
