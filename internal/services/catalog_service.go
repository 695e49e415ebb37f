package services

import (
	"appstore/internal/models"
	"appstore/internal/repositories"
)

// CatalogService handles business logic for the app catalog: categories and
// the apps inside them.
type CatalogService struct {
	categoryRepo repositories.CategoryRepository
	appRepo      repositories.AppRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(categoryRepo repositories.CategoryRepository, appRepo repositories.AppRepository) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		appRepo:      appRepo,
	}
}

// CreateCategory creates a new category.
func (s *CatalogService) CreateCategory(category *models.Category) error {
	return s.categoryRepo.Create(category)
}

// GetAllCategories retrieves all categories ordered by name.
func (s *CatalogService) GetAllCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

// GetCategoryByID retrieves a single category by its ID.
func (s *CatalogService) GetCategoryByID(id uint) (*models.Category, error) {
	return s.categoryRepo.GetByID(id)
}

// UpdateCategory applies a partial update to a category.
func (s *CatalogService) UpdateCategory(id uint, patch models.CategoryPatch) (*models.Category, error) {
	return s.categoryRepo.Update(id, patch)
}

// DeleteCategory deletes a category. A category that still has apps cannot
// be deleted.
func (s *CatalogService) DeleteCategory(id uint) (bool, error) {
	return s.categoryRepo.Delete(id)
}

// CreateApp creates a new app in an existing category.
func (s *CatalogService) CreateApp(app *models.App) error {
	if _, err := s.categoryRepo.GetByID(app.CategoryID); err != nil {
		return err
	}
	return s.appRepo.Create(app)
}

// GetAllApps retrieves all apps ordered by name.
func (s *CatalogService) GetAllApps() ([]models.App, error) {
	return s.appRepo.GetAll()
}

// GetAppByID retrieves a single app by its ID.
func (s *CatalogService) GetAppByID(id uint) (*models.App, error) {
	return s.appRepo.GetByID(id)
}

// GetAppsByCategory retrieves the apps of one category ordered by name.
func (s *CatalogService) GetAppsByCategory(categoryID uint) ([]models.App, error) {
	return s.appRepo.GetByCategory(categoryID)
}

// UpdateApp applies a partial update to an app.
func (s *CatalogService) UpdateApp(id uint, patch models.AppPatch) (*models.App, error) {
	return s.appRepo.Update(id, patch)
}

// DeleteApp deletes an app by its ID.
func (s *CatalogService) DeleteApp(id uint) (bool, error) {
	return s.appRepo.Delete(id)
}

// GetUsersWhoDownloaded retrieves the users who downloaded an app.
func (s *CatalogService) GetUsersWhoDownloaded(appID uint) ([]models.User, error) {
	return s.appRepo.GetUsersWhoDownloaded(appID)
}

// GetDownloadedByUserIDs retrieves the IDs of the users who downloaded an app.
func (s *CatalogService) GetDownloadedByUserIDs(appID uint) ([]uint, error) {
	return s.appRepo.GetDownloadedByUserIDs(appID)
}
