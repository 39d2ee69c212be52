package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pdv-api/internal/domain/repository"
	"github.com/sangkips/pdv-api/pkg/apperror"
)

type IdempotencyRepository struct {
	mu   sync.Mutex
	keys map[string]entity.IdempotencyKey
}

var _ domainRepo.IdempotencyRepository = (*IdempotencyRepository)(nil)

func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{keys: make(map[string]entity.IdempotencyKey)}
}

func (r *IdempotencyRepository) GetByKey(ctx context.Context, key, actor string) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ikey, ok := r.keys[key]
	if !ok || ikey.Actor != actor || ikey.IsExpired() {
		return nil, nil
	}
	return &ikey, nil
}

func (r *IdempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.keys[ikey.Key]; ok && !existing.IsExpired() {
		return apperror.NewConflictError("save idempotency key: record already exists")
	}
	if ikey.CreatedAt.IsZero() {
		ikey.CreatedAt = time.Now()
	}
	r.keys[ikey.Key] = *ikey
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for k, v := range r.keys {
		if v.IsExpired() {
			delete(r.keys, k)
			n++
		}
	}
	return n, nil
}
