package service

import (
	"context"
	"time"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/domain/repository"
	"github.com/sangkips/pdv-api/pkg/apperror"
	"github.com/sangkips/pdv-api/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

// AuthService selects the staff member operating a terminal. The session
// token only names the current actor; it does not grant permissions.
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager) *AuthService {
	return &AuthService{userRepo: userRepo, jwtManager: jwtManager}
}

// LoginInput represents the session start input
type LoginInput struct {
	UserID string
	PIN    string
}

// LoginOutput represents the session start output
type LoginOutput struct {
	User        *entity.User
	AccessToken string
	ExpiresAt   time.Time
}

// Login starts a session for a user. Users without a PIN are selected by id
// alone.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidPIN
	}
	if user.HasPIN() {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PINHash), []byte(input.PIN)); err != nil {
			return nil, apperror.ErrInvalidPIN
		}
	}

	token, expiresAt, err := s.jwtManager.GenerateSessionToken(user.ID, user.Name, user.Role)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue session token", err)
	}
	return &LoginOutput{User: user, AccessToken: token, ExpiresAt: expiresAt}, nil
}

// GetCurrentUser returns the user behind a session
func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}
