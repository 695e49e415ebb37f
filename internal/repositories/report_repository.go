package repositories

import "appstore/internal/models"

// ReportRepository defines the interface for report data access.
type ReportRepository interface {
	Create(report *models.Report) error
	GetByID(id uint) (*models.Report, error)
	GetAll() ([]models.Report, error)
	GetByUser(userID uint) ([]models.Report, error)
	GetByApp(appID uint) ([]models.Report, error)
	Update(id uint, patch models.ReportPatch) (*models.Report, error)
	Delete(id uint) (bool, error)
}
