package database

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/domain/repository"
	"gopkg.in/yaml.v3"
)

// CatalogSeed is the YAML document read from CATALOG_SEED_FILE:
//
//	products:
//	  - id: cafe
//	    name: Café
//	    price: "5.50"
//	    category: Bebidas
type CatalogSeed struct {
	Products []entity.Product `yaml:"products"`
}

// LoadCatalogSeed parses a seed file
func LoadCatalogSeed(path string) (*CatalogSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog seed: %w", err)
	}

	var seed CatalogSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse catalog seed %s: %w", path, err)
	}
	for i, p := range seed.Products {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("catalog seed entry %d needs an id and a name", i)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("catalog seed entry %s has a negative price", p.ID)
		}
	}
	return &seed, nil
}

// SeedCatalog inserts seed products that are not in the catalog yet. Existing
// products are left alone so admin edits survive restarts.
func SeedCatalog(ctx context.Context, products repository.ProductRepository, seed *CatalogSeed) (int, error) {
	inserted := 0
	for i := range seed.Products {
		p := seed.Products[i]
		existing, err := products.GetByID(ctx, p.ID)
		if err != nil {
			return inserted, err
		}
		if existing != nil {
			continue
		}
		if err := products.Save(ctx, &p); err != nil {
			return inserted, err
		}
		inserted++
	}
	log.Printf("Catalog seed: %d new products, %d already present", inserted, len(seed.Products)-inserted)
	return inserted, nil
}
