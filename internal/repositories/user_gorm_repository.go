package repositories

import (
	"errors"
	"fmt"

	"appstore/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{db: db}
}

// Create inserts a new user. Login and email uniqueness violations are
// reported as ErrConflict.
func (r *GORMUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: login or email already in use", ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

// GetByLogin retrieves a user by their login.
func (r *GORMUserRepository) GetByLogin(login string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "login = ?", login).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user with login %s", ErrNotFound, login)
		}
		return nil, fmt.Errorf("failed to get user by login %s: %w", login, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user with email %s", ErrNotFound, email)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetAll returns all users ordered by creation time.
func (r *GORMUserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("created_at").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}

// Update applies only the fields present in the patch, inside a transaction
// so the read-modify-write cannot lose a concurrent update.
func (r *GORMUserRepository) Update(id uint, patch models.UserPatch) (*models.User, error) {
	var user models.User
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d", ErrNotFound, id)
			}
			return fmt.Errorf("failed to get user %d: %w", id, err)
		}
		fields := patch.Fields()
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&user).Updates(fields).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: login or email already in use", ErrConflict)
			}
			return fmt.Errorf("failed to update user %d: %w", id, err)
		}
		// Refresh so the returned entity reflects the committed row.
		if err := tx.First(&user, id).Error; err != nil {
			return fmt.Errorf("failed to reload user %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user along with their download links and reports.
// It returns false when no such user exists.
func (r *GORMUserRepository) Delete(id uint) (bool, error) {
	found := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to get user %d: %w", id, err)
		}
		// Dependents go first so the foreign keys stay satisfied.
		if err := tx.Where("user_id = ?", id).Delete(&models.Download{}).Error; err != nil {
			return fmt.Errorf("failed to delete downloads of user %d: %w", id, err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Report{}).Error; err != nil {
			return fmt.Errorf("failed to delete reports of user %d: %w", id, err)
		}
		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("failed to delete user %d: %w", id, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// GetDownloadedApps returns the apps a user has downloaded, in download order.
func (r *GORMUserRepository) GetDownloadedApps(userID uint) ([]models.App, error) {
	if _, err := r.GetByID(userID); err != nil {
		return nil, err
	}
	var apps []models.App
	err := r.db.
		Joins("JOIN downloads ON downloads.app_id = apps.id").
		Where("downloads.user_id = ?", userID).
		Order("downloads.created_at").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get downloaded apps of user %d: %w", userID, err)
	}
	return apps, nil
}

// GetDownloadedAppIDs returns the IDs of the apps a user has downloaded.
func (r *GORMUserRepository) GetDownloadedAppIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Download{}).
		Where("user_id = ?", userID).
		Order("created_at").
		Pluck("app_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get downloaded app IDs of user %d: %w", userID, err)
	}
	return ids, nil
}
