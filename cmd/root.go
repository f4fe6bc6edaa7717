// Package cmd implements the reabastece command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"reabastece-api/config"
	"reabastece-api/database"
	"reabastece-api/logger"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "reabastece",
	Short: "Reabastece fuel tracking API",
	Long:  "Track vehicles, refuelings and usage sessions, and serve the Reabastece REST API.",
	RunE:  runServe,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to a TOML config file (environment variables still apply)")
}

// bootstrap loads the configuration, builds the logger and opens the database.
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building logger: %w", err)
	}

	db, err := database.Initialize(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.LogLevel == "debug")
	if err != nil {
		log.Error("failed to connect to database", zap.String("driver", cfg.DatabaseDriver), zap.Error(err))
		return nil, nil, nil, err
	}

	return cfg, log, db, nil
}

func closeDB(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
}
