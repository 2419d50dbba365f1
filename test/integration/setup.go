package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/metrics"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testJWTSecret = "integration-secret"

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the schema applied.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPoolFromURL(ctx, connStr, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedProducts inserts test product data into the database.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	products := []struct {
		id       string
		name     string
		price    float64
		category string
		stock    int
	}{
		{"P001", "Test Product 1", 10.00, "Category A", 5},
		{"P002", "Test Product 2", 20.00, "Category B", 3},
		{"P003", "Test Product 3", 30.00, "Category A", 0},
		{"P004", "Test Product 4", 40.00, "Category C", 8},
		{"P005", "Test Product 5", 50.00, "Category B", 1},
	}

	for i, p := range products {
		created := base.Add(time.Duration(i) * time.Minute)
		_, err := pool.Exec(ctx,
			`INSERT INTO products (id, name, price, category, stock, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
			p.id, p.name, p.price, p.category, p.stock, created,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "TRUNCATE order_items, orders, products"); err != nil {
		t.Fatalf("failed to clean tables: %v", err)
	}
}

// setupTestServer wires the REST API over the test database exactly as
// `storefront serve` does.
func setupTestServer(t *testing.T, testDB *TestDB) (http.Handler, *auth.TokenManager) {
	t.Helper()

	logger := zerolog.Nop()

	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)

	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, logger)

	productHandler := handler.NewProductHandler(productService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)

	tokens := auth.NewTokenManager(testJWTSecret, time.Hour)
	mux := router.New(productHandler, orderHandler, tokens, logger, router.Options{Metrics: metrics.New(nil)})
	return mux, tokens
}

// bearer mints a token for user with role.
func bearer(t *testing.T, tokens *auth.TokenManager, user, role string) string {
	t.Helper()

	token, err := tokens.Issue(user, role)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}
