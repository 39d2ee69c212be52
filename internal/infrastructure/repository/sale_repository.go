package repository

import (
	"context"
	"errors"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pdv-api/internal/domain/repository"
	"github.com/sangkips/pdv-api/pkg/pagination"
	"gorm.io/gorm"
)

type saleRepository struct {
	store *Store
}

// NewSaleRepository creates a new sale ledger repository
func NewSaleRepository(store *Store) domainRepo.SaleRepository {
	return &saleRepository{store: store}
}

func (r *saleRepository) Append(ctx context.Context, sale *entity.Sale) error {
	db, cancel := r.store.session(ctx)
	defer cancel()

	return r.store.fail("append sale", db.Create(sale).Error)
}

func (r *saleRepository) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	db, cancel := r.store.session(ctx)
	defer cancel()

	var sale entity.Sale
	err := db.First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.store.fail("load sale", err)
	}
	return &sale, nil
}

func (r *saleRepository) List(ctx context.Context, filter entity.SaleFilter) ([]entity.Sale, error) {
	db, cancel := r.store.session(ctx)
	defer cancel()

	sales := []entity.Sale{}
	err := window(db.Model(&entity.Sale{}), filter).
		Order("timestamp DESC").Order("id DESC").
		Find(&sales).Error
	if err != nil {
		return nil, r.store.fail("load sales", err)
	}
	return sales, nil
}

func (r *saleRepository) Page(ctx context.Context, filter entity.SaleFilter, params pagination.Params) ([]entity.Sale, int64, error) {
	db, cancel := r.store.session(ctx)
	defer cancel()

	params = params.Normalize()
	query := window(db.Model(&entity.Sale{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.store.fail("count sales", err)
	}

	sales := []entity.Sale{}
	err := query.Order("timestamp DESC").Order("id DESC").
		Offset(params.Offset()).Limit(params.PerPage).
		Find(&sales).Error
	if err != nil {
		return nil, 0, r.store.fail("load sales", err)
	}
	return sales, total, nil
}

func window(query *gorm.DB, filter entity.SaleFilter) *gorm.DB {
	if !filter.From.IsZero() {
		query = query.Where("timestamp >= ?", filter.From.UnixMilli())
	}
	if !filter.To.IsZero() {
		query = query.Where("timestamp < ?", filter.To.UnixMilli())
	}
	return query
}
