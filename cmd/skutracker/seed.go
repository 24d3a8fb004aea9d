package main

import (
	"errors"

	"sku-tracker/internal/core/logger"
	"sku-tracker/internal/features/skus/seed"
	skuservice "sku-tracker/internal/features/skus/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// seedCmd loads the demo SKUs and their history into DATABASE_URL.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample SKUs with identities and events",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if cfg.Database.URL == "" {
			return errors.New("DATABASE_URL is not set")
		}

		store, db, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := seed.Run(cmd.Context(), skuservice.NewSkuService(store, nil), seed.Samples())
		if err != nil {
			return err
		}

		logger.Get().Info("Seed complete", zap.Int("created", n))
		return nil
	},
}
