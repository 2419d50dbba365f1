//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
)

// Checks that the configured store is reachable and prints what it holds.
// Run with: go run scripts/check_store.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger := zerolog.Nop()

	if cfg.Store.Driver == config.DriverMongo {
		client, db, err := database.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to connect to mongodb: %v\n", err)
			os.Exit(1)
		}
		defer client.Disconnect(context.Background())

		fmt.Printf("Successfully connected to mongodb database: %s\n", db.Name())
		for _, name := range []string{database.ProductsCollection, database.OrdersCollection} {
			n, err := db.Collection(name).CountDocuments(ctx, bson.D{})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Count failed for %s: %v\n", name, err)
				os.Exit(1)
			}
			fmt.Printf("  - %s: %d\n", name, n)
		}
		return
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully connected to database: %s\n", dbName)

	for _, table := range []string{"products", "orders", "order_items"} {
		var n int
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			fmt.Fprintf(os.Stderr, "Count failed for %s (run `storefront migrate` first): %v\n", table, err)
			os.Exit(1)
		}
		fmt.Printf("  - %s: %d\n", table, n)
	}
}
