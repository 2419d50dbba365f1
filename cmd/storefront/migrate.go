package main

import (
	"context"
	"fmt"

	"storefront/internal/config"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the Postgres schema or create the MongoDB indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger := config.NewLogger(cfg.Logger, "migrate")

		st, err := openStores(context.Background(), cfg, true, logger)
		if err != nil {
			return err
		}
		st.close()

		logger.Info().Str("store", cfg.Store.Driver).Msg("migration completed")
		return nil
	},
}
