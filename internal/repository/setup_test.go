package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupPostgres creates a PostgreSQL testcontainer with the schema applied.
// Each call returns a reset func that empties every table.
func setupPostgres(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	t.Cleanup(func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	})

	reset := func() {
		_, err := pool.Exec(ctx, "TRUNCATE order_items, orders, products")
		require.NoError(t, err)
	}

	return pool, reset
}

// setupMongo creates a MongoDB testcontainer and returns a fresh database.
func setupMongo(t *testing.T) (*mongo.Database, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test")
	}

	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("testdb")
	require.NoError(t, database.EnsureIndexes(ctx, db, zerolog.Nop()))

	t.Cleanup(func() {
		_ = client.Disconnect(ctx)
		_ = mongoContainer.Terminate(ctx)
	})

	reset := func() {
		for _, name := range []string{database.ProductsCollection, database.OrdersCollection} {
			_, err := db.Collection(name).DeleteMany(ctx, map[string]any{})
			require.NoError(t, err)
		}
	}

	return db, reset
}
