package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/domain/enum"
	domainRepo "github.com/sangkips/pdv-api/internal/domain/repository"
	"github.com/sangkips/pdv-api/pkg/apperror"
)

// TableRepository keeps table sessions in process memory. A single mutex
// serialises writers, which stands in for the row lock of the SQL store.
type TableRepository struct {
	mu     sync.Mutex
	tables map[int]entity.Table
}

var _ domainRepo.TableRepository = (*TableRepository)(nil)

func NewTableRepository() *TableRepository {
	return &TableRepository{tables: make(map[int]entity.Table)}
}

func (r *TableRepository) Provision(ctx context.Context, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id := 1; id <= count; id++ {
		if _, ok := r.tables[id]; !ok {
			r.tables[id] = entity.NewTable(id)
		}
	}
	return nil
}

func (r *TableRepository) List(ctx context.Context) ([]entity.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.Table, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TableRepository) GetByID(ctx context.Context, id int) (*entity.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tables[id]
	if !ok {
		return nil, nil
	}
	t = t.Clone()
	return &t, nil
}

func (r *TableRepository) SaveOrder(ctx context.Context, id int, status enum.TableStatus, orders entity.OrderLines) (*entity.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tables[id]
	if !ok {
		return nil, nil
	}
	t.Status = status
	t.Orders = orders.Clone()
	t.UpdatedAt = time.Now()
	r.tables[id] = t

	out := t.Clone()
	return &out, nil
}

func (r *TableRepository) Mutate(ctx context.Context, id int, fn domainRepo.TableMutation) (*entity.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, apperror.NewStoreUnavailableError("save table order", err)
	}
	stored, ok := r.tables[id]
	if !ok {
		return nil, nil
	}

	working := stored.Clone()
	changed, err := fn(&working)
	if err != nil {
		return nil, err
	}
	if !changed {
		return &working, nil
	}
	if err := working.Validate(); err != nil {
		return nil, apperror.NewInternalError("refusing inconsistent table write", err)
	}

	working.UpdatedAt = time.Now()
	r.tables[id] = working.Clone()
	return &working, nil
}
