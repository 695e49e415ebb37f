package repositories

import (
	"errors"
	"fmt"

	"appstore/internal/models"

	"gorm.io/gorm"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

// Create inserts a new category. A duplicate name is reported as ErrConflict.
func (r *GORMCategoryRepository) Create(category *models.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: category name %q already in use", ErrConflict, category.Name)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetByID retrieves a category by its ID.
func (r *GORMCategoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get category %d: %w", id, err)
	}
	return &category, nil
}

// GetAll returns all categories ordered by name.
func (r *GORMCategoryRepository) GetAll() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	return categories, nil
}

// Update applies only the fields present in the patch.
func (r *GORMCategoryRepository) Update(id uint, patch models.CategoryPatch) (*models.Category, error) {
	var category models.Category
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: category %d", ErrNotFound, id)
			}
			return fmt.Errorf("failed to get category %d: %w", id, err)
		}
		fields := patch.Fields()
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&category).Updates(fields).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: category name already in use", ErrConflict)
			}
			return fmt.Errorf("failed to update category %d: %w", id, err)
		}
		if err := tx.First(&category, id).Error; err != nil {
			return fmt.Errorf("failed to reload category %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete removes a category. Deleting a category that still has apps is an
// integrity conflict, not a cascade.
func (r *GORMCategoryRepository) Delete(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.App{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count apps of category %d: %w", id, err)
	}
	if count > 0 {
		return false, fmt.Errorf("%w: category %d still has apps", ErrConflict, id)
	}
	res := r.db.Delete(&models.Category{}, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return false, fmt.Errorf("%w: category %d still has apps", ErrConflict, id)
		}
		return false, fmt.Errorf("failed to delete category %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
