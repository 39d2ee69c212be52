package repository

import (
	"context"

	"github.com/sangkips/pdv-api/internal/domain/entity"
)

// UserRepository defines the interface for staff data operations
type UserRepository interface {
	List(ctx context.Context) ([]entity.User, error)
	// GetByID returns (nil, nil) for an unknown user
	GetByID(ctx context.Context, id string) (*entity.User, error)
	Save(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) (bool, error)
}
