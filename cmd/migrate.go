package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"reabastece-api/database"
)

var flagSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&flagSeed, "seed", false, "Also insert the demo user and vehicle")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	defer closeDB(db, log)

	if err := database.Migrate(db, log); err != nil {
		return fmt.Errorf("migrating: %w", err)
	}
	log.Info("database migrated", zap.String("driver", cfg.DatabaseDriver))

	if flagSeed || cfg.SeedData {
		if err := database.SeedData(db, log); err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
	}
	return nil
}
