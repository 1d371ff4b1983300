package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"surveillance-dashboard/internal/config"
	"surveillance-dashboard/internal/db"
	"surveillance-dashboard/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the events table and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		appLogger := logger.New(cfg.Environment, cfg.LogLevel)

		cfg.DB.AutoMigrate = false
		database, err := db.New(cfg, appLogger)
		if err != nil {
			return err
		}
		dbm := db.NewManagerWith(database)
		defer dbm.Close()

		if err := db.Migrate(database); err != nil {
			return err
		}
		appLogger.Info().Str("driver", cfg.DB.Driver).Msg("migrations applied")
		return nil
	},
}
