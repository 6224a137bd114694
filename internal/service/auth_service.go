package service

import (
	"context"
	"errors"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/entity"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/repository"
)

// AuthService verifies credentials of admins and managers.
type AuthService struct {
	userRepo *repository.UserRepository
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo *repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Login returns the active user matching the credentials or ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := s.userRepo.FindActiveByUsername(ctx, username)
	if err != nil {
		logger.Error().Err(err).Msgf("Error looking up user %s", username)
		return nil, err
	}
	if user == nil || !CheckPassword(user.PasswordHash, password) {
		logger.Warn().Msgf("Failed login for user %s", username)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ListUsers returns every account ordered by id.
func (s *AuthService) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing users")
		return nil, err
	}
	return users, nil
}

// EnsureAdmin creates the admin account unless the username is already taken.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	_, err = s.userRepo.Create(ctx, &entity.User{Username: username, PasswordHash: hash, Role: entity.RoleAdmin})
	if errors.Is(err, repository.ErrDuplicateUsername) {
		return nil
	}
	if err != nil {
		logger.Error().Err(err).Msgf("Error creating admin %s", username)
		return err
	}
	logger.Info().Msgf("Created admin account %s", username)
	return nil
}
