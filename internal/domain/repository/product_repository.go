package repository

import (
	"context"

	"github.com/sangkips/pdv-api/internal/domain/entity"
)

// ProductRepository defines the interface for catalog data operations.
// Lookups return (nil, nil) when the product does not exist.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDs retrieves multiple products in a single query; unknown ids are skipped
	GetByIDs(ctx context.Context, ids []string) ([]entity.Product, error)
	// List returns the catalog ordered by name
	List(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, error)
	// Save inserts or replaces the product with the same id
	Save(ctx context.Context, product *entity.Product) error
	// Delete reports false when there was nothing to delete
	Delete(ctx context.Context, id string) (bool, error)
}
