package main

import (
	"errors"
	"fmt"

	"sku-tracker/internal/core/database"
	"sku-tracker/internal/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd applies pending schema migrations to DATABASE_URL.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if cfg.Database.URL == "" {
			return errors.New("DATABASE_URL is not set")
		}

		db, err := database.Open(cmd.Context(), cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := database.Migrate(db)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		logger.Get().Info("Migrations applied", zap.Int("count", n))
		return nil
	},
}
