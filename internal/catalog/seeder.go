package catalog

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// ProductWriter is the part of the product service the seeder needs.
type ProductWriter interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)
}

// Seeder loads a catalog into an empty product store.
type Seeder struct {
	products ProductWriter
	loader   Loader
	logger   zerolog.Logger
}

// NewSeeder creates a new catalog seeder.
func NewSeeder(products ProductWriter, loader Loader, logger zerolog.Logger) *Seeder {
	return &Seeder{
		products: products,
		loader:   loader,
		logger:   logger.With().Str("component", "catalog-seeder").Logger(),
	}
}

// Seed inserts every catalog entry from path when the store holds no
// products, and returns how many were created. A non-empty store is left
// untouched.
func (s *Seeder) Seed(ctx context.Context, path string) (int, error) {
	existing, err := s.products.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if existing > 0 {
		s.logger.Info().Int("existing", existing).Msg("product store not empty, skipping seed")
		return 0, nil
	}

	entries, err := s.loader.Load(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("failed to load catalog: %w", err)
	}

	created := 0
	for i := range entries {
		if _, err := s.products.Create(ctx, &entries[i]); err != nil {
			return created, fmt.Errorf("failed to seed product %q: %w", entries[i].Name, err)
		}
		created++
	}

	s.logger.Info().Int("created", created).Str("path", path).Msg("catalog seeded")

	return created, nil
}
