package repositories

import (
	"errors"
	"fmt"

	"appstore/internal/models"

	"gorm.io/gorm"
)

// GORMAppRepository is a GORM implementation of AppRepository.
type GORMAppRepository struct {
	db *gorm.DB
}

// NewGORMAppRepository creates a new instance of GORMAppRepository.
func NewGORMAppRepository(db *gorm.DB) *GORMAppRepository {
	return &GORMAppRepository{db: db}
}

// Create inserts a new app. A duplicate name or url is reported as
// ErrConflict, a missing category as ErrNotFound.
func (r *GORMAppRepository) Create(app *models.App) error {
	if err := r.db.Create(app).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: app name or url already in use", ErrConflict)
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("%w: category %d", ErrNotFound, app.CategoryID)
		}
		return fmt.Errorf("failed to create app: %w", err)
	}
	return nil
}

// GetByID retrieves an app by its ID.
func (r *GORMAppRepository) GetByID(id uint) (*models.App, error) {
	var app models.App
	if err := r.db.First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: app %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get app %d: %w", id, err)
	}
	return &app, nil
}

// GetAll returns all apps ordered by name.
func (r *GORMAppRepository) GetAll() ([]models.App, error) {
	var apps []models.App
	if err := r.db.Order("name").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to get all apps: %w", err)
	}
	return apps, nil
}

// GetByCategory returns the apps of one category ordered by name.
func (r *GORMAppRepository) GetByCategory(categoryID uint) ([]models.App, error) {
	var apps []models.App
	if err := r.db.Where("category_id = ?", categoryID).Order("name").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to get apps of category %d: %w", categoryID, err)
	}
	return apps, nil
}

// Update applies only the fields present in the patch.
func (r *GORMAppRepository) Update(id uint, patch models.AppPatch) (*models.App, error) {
	var app models.App
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&app, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: app %d", ErrNotFound, id)
			}
			return fmt.Errorf("failed to get app %d: %w", id, err)
		}
		fields := patch.Fields()
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&app).Updates(fields).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: app name or url already in use", ErrConflict)
			}
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return fmt.Errorf("%w: category", ErrNotFound)
			}
			return fmt.Errorf("failed to update app %d: %w", id, err)
		}
		if err := tx.First(&app, id).Error; err != nil {
			return fmt.Errorf("failed to reload app %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Delete removes an app along with its download links and reports.
// It returns false when no such app exists.
func (r *GORMAppRepository) Delete(id uint) (bool, error) {
	found := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var app models.App
		if err := tx.First(&app, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to get app %d: %w", id, err)
		}
		// Dependents go first so the foreign keys stay satisfied.
		if err := tx.Where("app_id = ?", id).Delete(&models.Download{}).Error; err != nil {
			return fmt.Errorf("failed to delete downloads of app %d: %w", id, err)
		}
		if err := tx.Where("app_id = ?", id).Delete(&models.Report{}).Error; err != nil {
			return fmt.Errorf("failed to delete reports of app %d: %w", id, err)
		}
		if err := tx.Delete(&app).Error; err != nil {
			return fmt.Errorf("failed to delete app %d: %w", id, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// GetUsersWhoDownloaded returns the users who downloaded an app, in download order.
func (r *GORMAppRepository) GetUsersWhoDownloaded(appID uint) ([]models.User, error) {
	if _, err := r.GetByID(appID); err != nil {
		return nil, err
	}
	var users []models.User
	err := r.db.
		Joins("JOIN downloads ON downloads.user_id = users.id").
		Where("downloads.app_id = ?", appID).
		Order("downloads.created_at").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get users who downloaded app %d: %w", appID, err)
	}
	return users, nil
}

// GetDownloadedByUserIDs returns the IDs of the users who downloaded an app.
func (r *GORMAppRepository) GetDownloadedByUserIDs(appID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Download{}).
		Where("app_id = ?", appID).
		Order("created_at").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get downloader IDs of app %d: %w", appID, err)
	}
	return ids, nil
}
