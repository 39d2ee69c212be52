package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pdv-api/internal/domain/repository"
	"gorm.io/gorm"
)

type idempotencyRepository struct {
	store *Store
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(store *Store) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{store: store}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key, actor string) (*entity.IdempotencyKey, error) {
	db, cancel := r.store.session(ctx)
	defer cancel()

	var ikey entity.IdempotencyKey
	err := db.Where("key = ? AND actor = ? AND expires_at > ?", key, actor, time.Now()).
		First(&ikey).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.store.fail("load idempotency key", err)
	}
	return &ikey, nil
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	db, cancel := r.store.session(ctx)
	defer cancel()

	return r.store.fail("save idempotency key", db.Create(ikey).Error)
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	db, cancel := r.store.session(ctx)
	defer cancel()

	result := db.Where("expires_at < ?", time.Now()).Delete(&entity.IdempotencyKey{})
	if result.Error != nil {
		return 0, r.store.fail("purge idempotency keys", result.Error)
	}
	return result.RowsAffected, nil
}
