package repositories

import "appstore/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByLogin(login string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetAll() ([]models.User, error)
	Update(id uint, patch models.UserPatch) (*models.User, error)
	Delete(id uint) (bool, error)
	GetDownloadedApps(userID uint) ([]models.App, error)
	GetDownloadedAppIDs(userID uint) ([]uint, error)
}
