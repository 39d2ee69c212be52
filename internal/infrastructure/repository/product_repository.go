package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pdv-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepository struct {
	store *Store
}

// NewProductRepository creates a new product repository
func NewProductRepository(store *Store) domainRepo.ProductRepository {
	return &productRepository{store: store}
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	db, cancel := r.store.session(ctx)
	defer cancel()

	var product entity.Product
	err := db.First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.store.fail("load product", err)
	}
	return &product, nil
}

// GetByIDs retrieves multiple products by their IDs in a single query
func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	db, cancel := r.store.session(ctx)
	defer cancel()

	var products []entity.Product
	if err := db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, r.store.fail("load products", err)
	}
	return products, nil
}

func (r *productRepository) List(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, error) {
	db, cancel := r.store.session(ctx)
	defer cancel()

	query := db.Model(&entity.Product{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("(name ILIKE ? OR category ILIKE ?)", like, like)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	products := []entity.Product{}
	if err := query.Order("name ASC").Order("id ASC").Find(&products).Error; err != nil {
		return nil, r.store.fail("load catalog", err)
	}
	return products, nil
}

func (r *productRepository) Save(ctx context.Context, product *entity.Product) error {
	db, cancel := r.store.session(ctx)
	defer cancel()

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "price", "category", "image", "updated_at"}),
	}).Create(product).Error
	return r.store.fail("save product", err)
}

func (r *productRepository) Delete(ctx context.Context, id string) (bool, error) {
	db, cancel := r.store.session(ctx)
	defer cancel()

	result := db.Delete(&entity.Product{}, "id = ?", id)
	if result.Error != nil {
		return false, r.store.fail("delete product", result.Error)
	}
	return result.RowsAffected > 0, nil
}
