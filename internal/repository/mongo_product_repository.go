package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// productDocument is the stored shape of a product.
type productDocument struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	Price       float64   `bson:"price"`
	Category    string    `bson:"category"`
	Stock       int       `bson:"stock"`
	ImageURL    string    `bson:"image_url"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toProductDocument(p *model.Product) productDocument {
	return productDocument{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d productDocument) toModel() model.Product {
	return model.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		Stock:       d.Stock,
		ImageURL:    d.ImageURL,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// mongoProductRepository implements ProductRepository on a MongoDB collection.
type mongoProductRepository struct {
	col    *mongo.Collection
	logger zerolog.Logger
}

// NewMongoProductRepository creates a new MongoDB-backed product repository.
func NewMongoProductRepository(db *mongo.Database, logger zerolog.Logger) ProductRepository {
	return &mongoProductRepository{
		col:    db.Collection(database.ProductsCollection),
		logger: logger.With().Str("repository", "product").Str("store", "mongo").Logger(),
	}
}

// List retrieves every product, oldest first.
func (r *mongoProductRepository) List(ctx context.Context) ([]model.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode products")
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]model.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toModel())
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *mongoProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var doc productDocument
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	p := doc.toModel()
	return &p, nil
}

// Create inserts a new product.
func (r *mongoProductRepository) Create(ctx context.Context, p *model.Product) error {
	if _, err := r.col.InsertOne(ctx, toProductDocument(p)); err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Str("product_id", p.ID).Msg("product created successfully")

	return nil
}

// Update replaces the stored document, keeping its creation time.
func (r *mongoProductRepository) Update(ctx context.Context, p *model.Product) error {
	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"stock":       p.Stock,
		"image_url":   p.ImageURL,
		"updated_at":  p.UpdatedAt,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": p.ID}, update)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	if res.MatchedCount == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

// Delete removes a product by its ID.
func (r *mongoProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if res.DeletedCount == 0 {
		return model.ErrProductNotFound
	}

	r.logger.Debug().Str("product_id", id).Msg("product deleted")

	return nil
}

// Count returns the number of stored products.
func (r *mongoProductRepository) Count(ctx context.Context) (int, error) {
	n, err := r.col.CountDocuments(ctx, bson.D{})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return int(n), nil
}

// ValidateProductsExist checks if all provided product IDs exist in the collection.
func (r *mongoProductRepository) ValidateProductsExist(ctx context.Context, ids []string) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to validate products exist")
		return fmt.Errorf("failed to validate products exist: %w", err)
	}

	if int(n) != len(ids) {
		r.logger.Warn().
			Int("expected", len(ids)).
			Int64("found", n).
			Msg("not all product IDs exist")
		return model.ErrUnknownProduct
	}

	return nil
}
