package repository

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves every product, oldest first.
	List(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	// Returns nil, nil when no product has that ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update overwrites every stored field of the product with the same ID.
	// Returns model.ErrProductNotFound when no product has that ID.
	Update(ctx context.Context, product *model.Product) error

	// Delete removes a product by its ID.
	// Returns model.ErrProductNotFound when no product has that ID.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored products.
	Count(ctx context.Context) (int, error)

	// ValidateProductsExist checks if all provided product IDs exist.
	// Returns model.ErrUnknownProduct if any product ID does not exist.
	ValidateProductsExist(ctx context.Context, ids []string) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// Create inserts an order together with its line items atomically.
	Create(ctx context.Context, order *model.Order) error

	// List retrieves orders newest first. An empty userID lists every order.
	List(ctx context.Context, userID string) ([]model.Order, error)

	// GetByID retrieves an order by its ID along with its items.
	// Returns nil, nil when no order has that ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// UpdateStatus moves an order from one status to another. The write only
	// applies while the order is still in status from; otherwise, or when no
	// order has that ID, it returns model.ErrStatusTransition.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, updatedAt time.Time) error
}

// uniqueIDs returns ids with duplicates removed, preserving first occurrence.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
