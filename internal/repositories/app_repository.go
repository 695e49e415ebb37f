package repositories

import "appstore/internal/models"

// AppRepository defines the interface for app data access.
type AppRepository interface {
	Create(app *models.App) error
	GetByID(id uint) (*models.App, error)
	GetAll() ([]models.App, error)
	GetByCategory(categoryID uint) ([]models.App, error)
	Update(id uint, patch models.AppPatch) (*models.App, error)
	Delete(id uint) (bool, error)
	GetUsersWhoDownloaded(appID uint) ([]models.User, error)
	GetDownloadedByUserIDs(appID uint) ([]uint, error)
}
