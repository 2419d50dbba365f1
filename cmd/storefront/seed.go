package main

import (
	"context"
	"fmt"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/service"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the product catalog into an empty store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger := config.NewLogger(cfg.Logger, "seed")

		ctx := cmd.Context()
		st, err := openStores(ctx, cfg, false, logger)
		if err != nil {
			return err
		}
		defer st.close()

		path := cfg.Catalog.File
		if seedFile != "" {
			path = seedFile
		}

		seeder := catalog.NewSeeder(service.NewProductService(st.products, logger), catalogLoader(ctx, cfg, logger), logger)
		n, err := seeder.Seed(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d products\n", n)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "catalog file (defaults to CATALOG_FILE)")
}

// catalogLoader reads from S3 when enabled and falls back to the local file system.
func catalogLoader(ctx context.Context, cfg *config.Config, logger zerolog.Logger) catalog.Loader {
	fileLoader := catalog.NewFileLoader(logger)
	if !cfg.S3.Enabled {
		logger.Info().Msg("using local file system for catalog files (S3 disabled)")
		return fileLoader
	}

	s3Loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}
	return catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, logger)
}
