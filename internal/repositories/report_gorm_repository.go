package repositories

import (
	"errors"
	"fmt"

	"appstore/internal/models"

	"gorm.io/gorm"
)

// GORMReportRepository is a GORM implementation of ReportRepository.
type GORMReportRepository struct {
	db *gorm.DB
}

// NewGORMReportRepository creates a new instance of GORMReportRepository.
func NewGORMReportRepository(db *gorm.DB) *GORMReportRepository {
	return &GORMReportRepository{db: db}
}

// Create inserts a new report. A missing user or app is reported as ErrNotFound.
func (r *GORMReportRepository) Create(report *models.Report) error {
	if err := r.db.Create(report).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("%w: user %d or app %d", ErrNotFound, report.UserID, report.AppID)
		}
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// GetByID retrieves a report by its ID.
func (r *GORMReportRepository) GetByID(id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: report %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get report %d: %w", id, err)
	}
	return &report, nil
}

// GetAll returns all reports ordered by id.
func (r *GORMReportRepository) GetAll() ([]models.Report, error) {
	var reports []models.Report
	if err := r.db.Order("id").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to get all reports: %w", err)
	}
	return reports, nil
}

// GetByUser returns the reports written by one user, ordered by id.
func (r *GORMReportRepository) GetByUser(userID uint) ([]models.Report, error) {
	var reports []models.Report
	if err := r.db.Where("user_id = ?", userID).Order("id").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to get reports of user %d: %w", userID, err)
	}
	return reports, nil
}

// GetByApp returns the reports of one app, ordered by id.
func (r *GORMReportRepository) GetByApp(appID uint) ([]models.Report, error) {
	var reports []models.Report
	if err := r.db.Where("app_id = ?", appID).Order("id").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to get reports of app %d: %w", appID, err)
	}
	return reports, nil
}

// Update applies only the fields present in the patch.
func (r *GORMReportRepository) Update(id uint, patch models.ReportPatch) (*models.Report, error) {
	var report models.Report
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&report, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: report %d", ErrNotFound, id)
			}
			return fmt.Errorf("failed to get report %d: %w", id, err)
		}
		fields := patch.Fields()
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&report).Updates(fields).Error; err != nil {
			return fmt.Errorf("failed to update report %d: %w", id, err)
		}
		if err := tx.First(&report, id).Error; err != nil {
			return fmt.Errorf("failed to reload report %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Delete removes a report. It returns false when no such report exists.
func (r *GORMReportRepository) Delete(id uint) (bool, error) {
	res := r.db.Delete(&models.Report{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete report %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
