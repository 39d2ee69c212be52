package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/domain/enum"
	"github.com/sangkips/pdv-api/internal/domain/repository"
	"github.com/sangkips/pdv-api/internal/infrastructure/cache"
	"github.com/sangkips/pdv-api/pkg/apperror"
)

// TableCache is the refreshed snapshot of every table session
type TableCache = cache.Snapshot[[]entity.Table]

// NewTableCache creates a table snapshot loaded from repo
func NewTableCache(repo repository.TableRepository, interval time.Duration) *TableCache {
	return cache.NewSnapshot("tables", interval, repo.List, cloneTables)
}

func cloneTables(ts []entity.Table) []entity.Table {
	out := make([]entity.Table, len(ts))
	for i := range ts {
		out[i] = ts[i].Clone()
	}
	return out
}

// TableService runs the table session state machine. Every change is one
// read-modify-write of the whole row; nothing is changed locally until the
// store has accepted the write.
type TableService struct {
	tableRepo   repository.TableRepository
	productRepo repository.ProductRepository
	tables      *TableCache
}

// NewTableService creates a new table service. tables may be nil.
func NewTableService(
	tableRepo repository.TableRepository,
	productRepo repository.ProductRepository,
	tables *TableCache,
) *TableService {
	return &TableService{
		tableRepo:   tableRepo,
		productRepo: productRepo,
		tables:      tables,
	}
}

// ListTables returns every table, possibly stale by up to the refresh interval
func (s *TableService) ListTables(ctx context.Context, fresh bool) (cache.View[[]entity.Table], error) {
	if s.tables != nil {
		return s.tables.Get(ctx, fresh)
	}
	tables, err := s.tableRepo.List(ctx)
	if err != nil {
		return cache.View[[]entity.Table]{}, err
	}
	return cache.View[[]entity.Table]{Value: tables, FetchedAt: time.Now()}, nil
}

// GetTable reads a table straight from the store
func (s *TableService) GetTable(ctx context.Context, id int) (*entity.Table, error) {
	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, apperror.NewNotFoundError("Table")
	}
	return table, nil
}

// AddItem adds one unit of a product. A repeated product bumps the existing
// line and keeps its original price.
func (s *TableService) AddItem(ctx context.Context, tableID int, productID string) (*entity.Table, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewInvalidOperationError(fmt.Sprintf("product %s is not in the catalog", productID))
	}

	table, err := s.tableRepo.Mutate(ctx, tableID, func(t *entity.Table) (bool, error) {
		*t = t.AddItem(*product)
		return true, nil
	})
	return s.written(table, err)
}

// RemoveItem takes one unit of a product off the table. Removing a product
// that is not on the table changes nothing.
func (s *TableService) RemoveItem(ctx context.Context, tableID int, productID string) (*entity.Table, error) {
	table, err := s.tableRepo.Mutate(ctx, tableID, func(t *entity.Table) (bool, error) {
		next, changed := t.RemoveItem(productID)
		*t = next
		return changed, nil
	})
	return s.written(table, err)
}

// ClearTable frees a table without recording a sale
func (s *TableService) ClearTable(ctx context.Context, tableID int) (*entity.Table, error) {
	table, err := s.tableRepo.SaveOrder(ctx, tableID, enum.TableStatusFree, entity.OrderLines{})
	return s.written(table, err)
}

// SaveOrder replaces status and orders as given, rejecting pairs that break
// the occupied-iff-lines rule
func (s *TableService) SaveOrder(ctx context.Context, tableID int, status enum.TableStatus, orders entity.OrderLines) (*entity.Table, error) {
	candidate := entity.Table{ID: tableID, Status: status, Orders: orders.Clone()}
	if err := candidate.Validate(); err != nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "orders", Message: err.Error()}})
	}

	table, err := s.tableRepo.SaveOrder(ctx, tableID, status, candidate.Orders)
	return s.written(table, err)
}

func (s *TableService) written(table *entity.Table, err error) (*entity.Table, error) {
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, apperror.NewNotFoundError("Table")
	}
	s.remember(*table)
	return table, nil
}

// remember pushes a written table into the snapshot
func (s *TableService) remember(table entity.Table) {
	if s.tables == nil {
		return
	}
	s.tables.Update(func(ts []entity.Table) []entity.Table {
		for i := range ts {
			if ts[i].ID == table.ID {
				ts[i] = table.Clone()
				break
			}
		}
		return ts
	})
}
