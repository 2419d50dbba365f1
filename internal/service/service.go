package service

import (
	"context"

	"storefront/internal/auth"
	"storefront/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for product management.
type ProductService interface {
	// List retrieves every product.
	List(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create validates and stores a new product.
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// Update replaces every mutable field of an existing product.
	Update(ctx context.Context, id string, req *model.ProductRequest) (*model.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored products.
	Count(ctx context.Context) (int, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// Create places a new pending order owned by userID.
	Create(ctx context.Context, userID string, req *model.OrderRequest) (*model.Order, error)

	// List retrieves the caller's orders, or every order for admins.
	List(ctx context.Context, caller auth.Identity) ([]model.Order, error)

	// GetByID retrieves an order visible to the caller.
	GetByID(ctx context.Context, caller auth.Identity, id uuid.UUID) (*model.Order, error)

	// UpdateStatus moves an order to a new status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
}
