package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pdv-api/internal/domain/repository"
	"github.com/sangkips/pdv-api/pkg/apperror"
	"github.com/sangkips/pdv-api/pkg/pagination"
)

// SaleRepository is an append-only in-memory ledger
type SaleRepository struct {
	mu    sync.RWMutex
	sales []entity.Sale
	byID  map[string]int
}

var _ domainRepo.SaleRepository = (*SaleRepository)(nil)

func NewSaleRepository(seed ...entity.Sale) *SaleRepository {
	r := &SaleRepository{byID: make(map[string]int)}
	for _, s := range seed {
		_ = r.Append(context.Background(), &s)
	}
	return r
}

func (r *SaleRepository) Append(ctx context.Context, sale *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.byID[sale.ID]; dup {
		return apperror.NewConflictError("append sale: record already exists")
	}
	r.byID[sale.ID] = len(r.sales)
	r.sales = append(r.sales, sale.Clone())
	return nil
}

func (r *SaleRepository) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	s := r.sales[i].Clone()
	return &s, nil
}

func (r *SaleRepository) List(ctx context.Context, filter entity.SaleFilter) ([]entity.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		if filter.Contains(s) {
			out = append(out, s.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp > out[j].Timestamp
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *SaleRepository) Page(ctx context.Context, filter entity.SaleFilter, params pagination.Params) ([]entity.Sale, int64, error) {
	all, err := r.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	page := pagination.Slice(all, params)
	return page.Items, page.Pagination.Total, nil
}

// Len is the number of recorded sales
func (r *SaleRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sales)
}
