package repository

import (
	"context"
	"errors"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pdv-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	store *Store
}

// NewUserRepository creates a new user repository
func NewUserRepository(store *Store) domainRepo.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) List(ctx context.Context) ([]entity.User, error) {
	db, cancel := r.store.session(ctx)
	defer cancel()

	users := []entity.User{}
	if err := db.Order("name ASC").Find(&users).Error; err != nil {
		return nil, r.store.fail("load users", err)
	}
	return users, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	db, cancel := r.store.session(ctx)
	defer cancel()

	var user entity.User
	err := db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.store.fail("load user", err)
	}
	return &user, nil
}

func (r *userRepository) Save(ctx context.Context, user *entity.User) error {
	db, cancel := r.store.session(ctx)
	defer cancel()

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "role", "pin_hash", "updated_at"}),
	}).Create(user).Error
	return r.store.fail("save user", err)
}

func (r *userRepository) Delete(ctx context.Context, id string) (bool, error) {
	db, cancel := r.store.session(ctx)
	defer cancel()

	result := db.Delete(&entity.User{}, "id = ?", id)
	if result.Error != nil {
		return false, r.store.fail("delete user", result.Error)
	}
	return result.RowsAffected > 0, nil
}
