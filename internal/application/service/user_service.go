package service

import (
	"context"
	"strings"
	"time"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/domain/repository"
	"github.com/sangkips/pdv-api/pkg/apperror"
	"github.com/sangkips/pdv-api/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

const minPINLength = 4

// UserService handles staff management operations
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// SaveUserInput represents the create or replace user input
type SaveUserInput struct {
	ID   string
	Name string
	Role string
	// PIN replaces the stored PIN when set; an empty string removes it
	PIN *string
}

func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.userRepo.List(ctx)
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// SaveUser creates a user, or replaces the one with the same id
func (s *UserService) SaveUser(ctx context.Context, input *SaveUserInput) (*entity.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "name is required"}})
	}
	if input.PIN != nil && *input.PIN != "" && len(*input.PIN) < minPINLength {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "pin", Message: "pin must have at least 4 digits"}})
	}

	now := time.Now()
	user := &entity.User{
		ID:        strings.TrimSpace(input.ID),
		Name:      name,
		Role:      strings.TrimSpace(input.Role),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if user.Role == "" {
		user.Role = entity.DefaultRole
	}
	if user.ID == "" {
		user.ID = utils.NewID()
	} else {
		existing, err := s.userRepo.GetByID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			user.CreatedAt = existing.CreatedAt
			user.PINHash = existing.PINHash
		}
	}

	if input.PIN != nil {
		user.PINHash = ""
		if *input.PIN != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(*input.PIN), bcrypt.DefaultCost)
			if err != nil {
				return nil, apperror.NewInternalError("failed to hash pin", err)
			}
			user.PINHash = string(hash)
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user. Past sales keep their user id.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	deleted, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NewNotFoundError("User")
	}
	return nil
}
