package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// orderDocument is the stored shape of an order; line items are embedded.
type orderDocument struct {
	ID              string              `bson:"_id"`
	UserID          string              `bson:"user_id"`
	Items           []orderItemDocument `bson:"items"`
	TotalAmount     float64             `bson:"total_amount"`
	Status          string              `bson:"status"`
	ShippingAddress shippingDocument    `bson:"shipping_address"`
	CreatedAt       time.Time           `bson:"created_at"`
	UpdatedAt       time.Time           `bson:"updated_at"`
}

type orderItemDocument struct {
	ProductID string `bson:"product_id"`
	Quantity  int    `bson:"quantity"`
}

type shippingDocument struct {
	Name       string `bson:"name"`
	Address    string `bson:"address"`
	City       string `bson:"city"`
	PostalCode string `bson:"postal_code"`
	Country    string `bson:"country"`
}

func toOrderDocument(o *model.Order) orderDocument {
	items := make([]orderItemDocument, len(o.Items))
	for i, item := range o.Items {
		items[i] = orderItemDocument{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	return orderDocument{
		ID:          o.ID.String(),
		UserID:      o.UserID,
		Items:       items,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		ShippingAddress: shippingDocument{
			Name:       o.ShippingAddress.Name,
			Address:    o.ShippingAddress.Address,
			City:       o.ShippingAddress.City,
			PostalCode: o.ShippingAddress.PostalCode,
			Country:    o.ShippingAddress.Country,
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func (d orderDocument) toModel() (model.Order, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.Order{}, fmt.Errorf("malformed order id %q: %w", d.ID, err)
	}

	items := make([]model.OrderItem, len(d.Items))
	for i, item := range d.Items {
		items[i] = model.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	return model.Order{
		ID:          id,
		UserID:      d.UserID,
		Items:       items,
		TotalAmount: d.TotalAmount,
		Status:      model.OrderStatus(d.Status),
		ShippingAddress: model.ShippingAddress{
			Name:       d.ShippingAddress.Name,
			Address:    d.ShippingAddress.Address,
			City:       d.ShippingAddress.City,
			PostalCode: d.ShippingAddress.PostalCode,
			Country:    d.ShippingAddress.Country,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

// mongoOrderRepository implements OrderRepository on a MongoDB collection.
type mongoOrderRepository struct {
	col    *mongo.Collection
	logger zerolog.Logger
}

// NewMongoOrderRepository creates a new MongoDB-backed order repository.
func NewMongoOrderRepository(db *mongo.Database, logger zerolog.Logger) OrderRepository {
	return &mongoOrderRepository{
		col:    db.Collection(database.OrdersCollection),
		logger: logger.With().Str("repository", "order").Str("store", "mongo").Logger(),
	}
}

// Create inserts the order as a single document.
func (r *mongoOrderRepository) Create(ctx context.Context, order *model.Order) error {
	if _, err := r.col.InsertOne(ctx, toOrderDocument(order)); err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Int("item_count", len(order.Items)).
		Msg("order created successfully")

	return nil
}

// List retrieves orders newest first, optionally restricted to one user.
func (r *mongoOrderRepository) List(ctx context.Context, userID string) ([]model.Order, error) {
	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode orders")
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	orders := make([]model.Order, 0, len(docs))
	for _, d := range docs {
		o, err := d.toModel()
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to convert order document")
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// GetByID retrieves an order by its ID.
func (r *mongoOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var doc orderDocument
	err := r.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	o, err := doc.toModel()
	if err != nil {
		return nil, err
	}

	return &o, nil
}

// UpdateStatus moves an order from one status to another.
func (r *mongoOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, updatedAt time.Time) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id.String(), "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "updated_at": updatedAt}},
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if res.MatchedCount == 0 {
		return model.ErrStatusTransition
	}

	return nil
}
