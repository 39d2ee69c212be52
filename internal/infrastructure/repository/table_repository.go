package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/domain/enum"
	domainRepo "github.com/sangkips/pdv-api/internal/domain/repository"
	"github.com/sangkips/pdv-api/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type tableRepository struct {
	store *Store
}

// NewTableRepository creates a new table repository
func NewTableRepository(store *Store) domainRepo.TableRepository {
	return &tableRepository{store: store}
}

func (r *tableRepository) Provision(ctx context.Context, count int) error {
	if count < 1 {
		return nil
	}
	db, cancel := r.store.session(ctx)
	defer cancel()

	tables := make([]entity.Table, 0, count)
	for id := 1; id <= count; id++ {
		tables = append(tables, entity.NewTable(id))
	}
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tables).Error
	return r.store.fail("provision tables", err)
}

func (r *tableRepository) List(ctx context.Context) ([]entity.Table, error) {
	db, cancel := r.store.session(ctx)
	defer cancel()

	tables := []entity.Table{}
	if err := db.Order("id ASC").Find(&tables).Error; err != nil {
		return nil, r.store.fail("load tables", err)
	}
	return tables, nil
}

func (r *tableRepository) GetByID(ctx context.Context, id int) (*entity.Table, error) {
	db, cancel := r.store.session(ctx)
	defer cancel()

	var table entity.Table
	err := db.First(&table, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.store.fail("load table", err)
	}
	return &table, nil
}

// SaveOrder writes status and orders in a single UPDATE ... RETURNING
func (r *tableRepository) SaveOrder(ctx context.Context, id int, status enum.TableStatus, orders entity.OrderLines) (*entity.Table, error) {
	db, cancel := r.store.session(ctx)
	defer cancel()

	var table entity.Table
	result := db.Model(&table).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"orders":     orders.Clone(),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, r.store.fail("save table order", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &table, nil
}

// Mutate locks the row with SELECT ... FOR UPDATE for the read-modify-write
func (r *tableRepository) Mutate(ctx context.Context, id int, fn domainRepo.TableMutation) (*entity.Table, error) {
	db, cancel := r.store.session(ctx)
	defer cancel()

	var (
		table entity.Table
		found bool
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&table, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true

		changed, err := fn(&table)
		if err != nil {
			return &mutationError{err: err}
		}
		if !changed {
			return nil
		}
		if err := table.Validate(); err != nil {
			return &mutationError{err: apperror.NewInternalError("refusing inconsistent table write", err)}
		}

		table.UpdatedAt = time.Now()
		return tx.Model(&entity.Table{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":     table.Status,
				"orders":     table.Orders,
				"updated_at": table.UpdatedAt,
			}).Error
	})

	var mErr *mutationError
	if errors.As(err, &mErr) {
		return nil, mErr.err
	}
	if err != nil {
		return nil, r.store.fail("save table order", err)
	}
	if !found {
		return nil, nil
	}
	return &table, nil
}
