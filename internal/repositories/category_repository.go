package repositories

import "appstore/internal/models"

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id uint) (*models.Category, error)
	GetAll() ([]models.Category, error)
	Update(id uint, patch models.CategoryPatch) (*models.Category, error)
	Delete(id uint) (bool, error)
}
