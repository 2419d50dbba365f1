package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// Create places a new pending order owned by userID.
// The client-supplied total is stored as sent; stock is not decremented.
func (s *orderService) Create(ctx context.Context, userID string, req *model.OrderRequest) (*model.Order, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	productIDs := make([]string, len(req.Items))
	for i, item := range req.Items {
		productIDs[i] = item.ProductID
	}

	if err := s.productRepo.ValidateProductsExist(ctx, productIDs); err != nil {
		s.logger.Warn().
			Int("product_count", len(productIDs)).
			Err(err).
			Msg("product validation failed")
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to validate products: %w", err)
	}

	now := timestamp()
	order := &model.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Items:           append([]model.OrderItem(nil), req.Items...),
		TotalAmount:     req.TotalAmount,
		Status:          model.OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID).
		Int("item_count", len(order.Items)).
		Msg("order created successfully")

	return order, nil
}

// List retrieves the caller's orders, or every order for admins.
func (s *orderService) List(ctx context.Context, caller auth.Identity) ([]model.Order, error) {
	userID := caller.UserID
	if caller.IsAdmin() {
		userID = ""
	}

	orders, err := s.orderRepo.List(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", caller.UserID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	s.logger.Debug().
		Str("user_id", caller.UserID).
		Bool("admin", caller.IsAdmin()).
		Int("count", len(orders)).
		Msg("retrieved orders")

	return orders, nil
}

// GetByID retrieves an order visible to the caller. Orders owned by other
// users are reported as not found.
func (s *orderService) GetByID(ctx context.Context, caller auth.Identity, id uuid.UUID) (*model.Order, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() && order.UserID != caller.UserID {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("user_id", caller.UserID).
			Msg("order requested by non-owner")
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// UpdateStatus moves an order to a new status following the transition table.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, model.ErrInvalidStatus
	}

	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(order.Status)).
			Str("to", string(status)).
			Msg("rejected status transition")
		return nil, model.ErrStatusTransition
	}

	if order.Status == status {
		return order, nil
	}

	now := timestamp()
	if err := s.orderRepo.UpdateStatus(ctx, id, order.Status, status, now); err != nil {
		if errors.Is(err, model.ErrStatusTransition) {
			s.logger.Warn().
				Str("order_id", id.String()).
				Str("from", string(order.Status)).
				Str("to", string(status)).
				Msg("order status changed concurrently")
			return nil, err
		}
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(order.Status)).
		Str("to", string(status)).
		Msg("order status updated")

	order.Status = status
	order.UpdatedAt = now

	return order, nil
}

func (s *orderService) find(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// validateOrderRequest validates the order request.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil || len(req.Items) == 0 {
		return model.ErrEmptyOrder
	}

	if req.TotalAmount < 0 {
		return model.ErrInvalidTotal
	}

	for i, item := range req.Items {
		if item.ProductID == "" {
			return model.ErrMissingProductID
		}

		if item.Quantity <= 0 || item.Quantity > math.MaxInt32 {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	return nil
}
