// Command unistore runs the university storefront API and its
// maintenance tasks.
//
//	unistore serve
//	unistore migrate
//	unistore seed
//	unistore token --user u1 --role admin
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/unistore/config"
	"github.com/shashiranjanraj/unistore/pkg/logger"

	// Register migrations and seeders through their init() funcs.
	_ "github.com/shashiranjanraj/unistore/database/migrations"
	_ "github.com/shashiranjanraj/unistore/database/seeders"
)

var flushLogs = func() {}

func main() {
	err := rootCmd.Execute()
	flushLogs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "unistore",
	Short:         "University storefront API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		flush, err := logger.Setup(config.AppEnv(), config.LogMongoURI(), config.MongoDatabase())
		flushLogs = flush
		if err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		}
		return nil
	},
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Identity
	rootCmd.AddCommand(tokenCmd)
}
