package main

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// stores bundles the repositories of the configured backend and the
// function that releases its connections.
type stores struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	close    func()
}

// openStores connects to the configured backend. When migrate is true the
// Postgres schema is applied or the Mongo indexes are created first.
func openStores(ctx context.Context, cfg *config.Config, migrate bool, logger zerolog.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := database.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mongodb: %w", err)
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error().Err(err).Msg("failed to disconnect from mongodb")
			}
		}

		if migrate {
			if err := database.EnsureIndexes(ctx, db, logger); err != nil {
				closeFn()
				return nil, err
			}
		}

		return &stores{
			products: repository.NewMongoProductRepository(db, logger),
			orders:   repository.NewMongoOrderRepository(db, logger),
			close:    closeFn,
		}, nil

	default:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}

		if migrate {
			if err := database.Migrate(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, err
			}
		}

		return &stores{
			products: repository.NewProductRepository(pool, logger),
			orders:   repository.NewOrderRepository(pool, logger),
			close:    pool.Close,
		}, nil
	}
}
