package service

import (
	"context"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/entity"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/repository"
)

// ManagerService manages accounts with the manager role. Every statement is
// filtered by role, so admins can never be touched through it.
type ManagerService struct {
	userRepo *repository.UserRepository
}

func NewManagerService(userRepo *repository.UserRepository) *ManagerService {
	return &ManagerService{userRepo: userRepo}
}

func (s *ManagerService) ListManagers(ctx context.Context) ([]entity.User, error) {
	managers, err := s.userRepo.ListByRole(ctx, entity.RoleManager)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing managers")
		return nil, err
	}
	return managers, nil
}

func (s *ManagerService) CreateManager(ctx context.Context, username, password string) (int, error) {
	hash, err := HashPassword(password)
	if err != nil {
		logger.Error().Err(err).Msg("Error hashing manager password")
		return 0, err
	}

	id, err := s.userRepo.Create(ctx, &entity.User{Username: username, PasswordHash: hash, Role: entity.RoleManager})
	if err != nil {
		logger.Error().Err(err).Msgf("Error creating manager %s", username)
		return 0, err
	}
	return id, nil
}

func (s *ManagerService) DeleteManager(ctx context.Context, id int) error {
	n, err := s.userRepo.DeleteByIDAndRole(ctx, id, entity.RoleManager)
	if err != nil {
		logger.Error().Err(err).Msgf("Error deleting manager %d", id)
		return err
	}
	if n == 0 {
		logger.Warn().Msgf("No manager with id %d to delete", id)
	}
	return nil
}

func (s *ManagerService) UpdatePassword(ctx context.Context, id int, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		logger.Error().Err(err).Msg("Error hashing manager password")
		return err
	}

	n, err := s.userRepo.UpdatePasswordByIDAndRole(ctx, id, entity.RoleManager, hash)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating password of manager %d", id)
		return err
	}
	if n == 0 {
		logger.Warn().Msgf("No manager with id %d to update", id)
	}
	return nil
}
