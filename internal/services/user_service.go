package services

import (
	"appstore/internal/models"
	"appstore/internal/repositories"
)

// UserService handles business logic related to user accounts.
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// GetAllUsers retrieves all users ordered by creation time.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	return s.repo.GetAll()
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	return s.repo.GetByID(id)
}

// UpdateUser applies a partial update to a user.
func (s *UserService) UpdateUser(id uint, patch models.UserPatch) (*models.User, error) {
	return s.repo.Update(id, patch)
}

// DeleteUser deletes a user by their ID.
func (s *UserService) DeleteUser(id uint) (bool, error) {
	return s.repo.Delete(id)
}

// GetDownloadedApps retrieves the apps a user has downloaded.
func (s *UserService) GetDownloadedApps(userID uint) ([]models.App, error) {
	return s.repo.GetDownloadedApps(userID)
}

// GetDownloadedAppIDs retrieves the IDs of the apps a user has downloaded.
func (s *UserService) GetDownloadedAppIDs(userID uint) ([]uint, error) {
	return s.repo.GetDownloadedAppIDs(userID)
}
