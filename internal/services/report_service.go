package services

import (
	"appstore/internal/models"
	"appstore/internal/repositories"
)

// ReportService handles business logic related to app reviews.
type ReportService struct {
	repo repositories.ReportRepository
}

// NewReportService creates a new ReportService.
func NewReportService(repo repositories.ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

// CreateReport creates a new report for an existing user and app.
func (s *ReportService) CreateReport(report *models.Report) error {
	return s.repo.Create(report)
}

// GetAllReports retrieves all reports ordered by id.
func (s *ReportService) GetAllReports() ([]models.Report, error) {
	return s.repo.GetAll()
}

// GetReportByID retrieves a single report by its ID.
func (s *ReportService) GetReportByID(id uint) (*models.Report, error) {
	return s.repo.GetByID(id)
}

// GetReportsByUser retrieves the reports written by one user.
func (s *ReportService) GetReportsByUser(userID uint) ([]models.Report, error) {
	return s.repo.GetByUser(userID)
}

// GetReportsByApp retrieves the reports of one app.
func (s *ReportService) GetReportsByApp(appID uint) ([]models.Report, error) {
	return s.repo.GetByApp(appID)
}

// UpdateReport applies a partial update to a report.
func (s *ReportService) UpdateReport(id uint, patch models.ReportPatch) (*models.Report, error) {
	return s.repo.Update(id, patch)
}

// DeleteReport deletes a report by its ID.
func (s *ReportService) DeleteReport(id uint) (bool, error) {
	return s.repo.Delete(id)
}
