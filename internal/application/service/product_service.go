package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sangkips/pdv-api/internal/application/report"
	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/domain/repository"
	"github.com/sangkips/pdv-api/internal/infrastructure/cache"
	"github.com/sangkips/pdv-api/pkg/apperror"
	"github.com/sangkips/pdv-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// CatalogCache is the refreshed snapshot of the full catalog
type CatalogCache = cache.Snapshot[[]entity.Product]

// NewCatalogCache creates a catalog snapshot loaded from repo
func NewCatalogCache(repo repository.ProductRepository, interval time.Duration) *CatalogCache {
	return cache.NewSnapshot("catalog", interval, func(ctx context.Context) ([]entity.Product, error) {
		return repo.List(ctx, entity.ProductFilter{})
	}, cloneProducts)
}

func cloneProducts(ps []entity.Product) []entity.Product {
	return append([]entity.Product(nil), ps...)
}

// ProductService handles catalog operations
type ProductService struct {
	productRepo repository.ProductRepository
	catalog     *CatalogCache
}

// NewProductService creates a new product service. catalog may be nil, in
// which case every list goes to the store.
func NewProductService(productRepo repository.ProductRepository, catalog *CatalogCache) *ProductService {
	return &ProductService{productRepo: productRepo, catalog: catalog}
}

// UpsertProductInput represents the create or replace product input
type UpsertProductInput struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Category string
	Image    string
}

// ListProducts lists the catalog. Unfiltered reads are served from the
// snapshot unless fresh is set.
func (s *ProductService) ListProducts(ctx context.Context, filter entity.ProductFilter, fresh bool) (cache.View[[]entity.Product], error) {
	filter.Search = strings.TrimSpace(filter.Search)
	if s.catalog != nil && filter.Search == "" && filter.Category == "" {
		return s.catalog.Get(ctx, fresh)
	}

	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return cache.View[[]entity.Product]{}, err
	}
	return cache.View[[]entity.Product]{Value: products, FetchedAt: time.Now()}, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpsertProduct creates the product, or replaces the one with the same id.
// Open table lines keep the price they were opened with.
func (s *ProductService) UpsertProduct(ctx context.Context, input *UpsertProductInput) (*entity.Product, error) {
	var fieldErrors []apperror.FieldError
	name := strings.TrimSpace(input.Name)
	if name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if input.Price.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price", Message: "price must not be negative"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	product := &entity.Product{
		ID:       strings.TrimSpace(input.ID),
		Name:     name,
		Price:    input.Price.Round(2),
		Category: strings.TrimSpace(input.Category),
		Image:    strings.TrimSpace(input.Image),
	}
	now := time.Now()
	if product.ID == "" {
		product.ID = utils.NewID()
		product.CreatedAt = now
	} else {
		existing, err := s.productRepo.GetByID(ctx, product.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			product.CreatedAt = existing.CreatedAt
		} else {
			product.CreatedAt = now
		}
	}
	product.UpdatedAt = now

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	if s.catalog != nil {
		saved := *product
		s.catalog.Update(func(ps []entity.Product) []entity.Product {
			for i := range ps {
				if ps[i].ID == saved.ID {
					ps[i] = saved
					return sortByName(ps)
				}
			}
			return sortByName(append(ps, saved))
		})
	}
	return product, nil
}

// RemoveProduct deletes a product. Sales and open lines that reference it
// are left alone and render it as removed.
func (s *ProductService) RemoveProduct(ctx context.Context, id string) error {
	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NewNotFoundError("Product")
	}

	if s.catalog != nil {
		s.catalog.Update(func(ps []entity.Product) []entity.Product {
			out := ps[:0]
			for _, p := range ps {
				if p.ID != id {
					out = append(out, p)
				}
			}
			return out
		})
	}
	return nil
}

// ProductNames resolves product names for receipts and reports
func (s *ProductService) ProductNames(ctx context.Context) (report.NameResolver, error) {
	view, err := s.ListProducts(ctx, entity.ProductFilter{}, false)
	if err != nil {
		return nil, err
	}
	return report.CatalogResolver(view.Value), nil
}

func sortByName(ps []entity.Product) []entity.Product {
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].Name != ps[j].Name {
			return ps[i].Name < ps[j].Name
		}
		return ps[i].ID < ps[j].ID
	})
	return ps
}
