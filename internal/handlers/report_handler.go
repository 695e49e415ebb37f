package handlers

import (
	"log"

	"appstore/internal/models"
	"appstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles HTTP requests for app reviews.
type ReportHandler struct {
	reportService *services.ReportService
	validate      *validator.Validate
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the report routes with the Fiber app.
func (h *ReportHandler) RegisterRoutes(router fiber.Router) {
	reportRoutes := router.Group("/reports")
	reportRoutes.Post("/", h.HandleCreateReport)
	reportRoutes.Get("/", h.HandleGetReports)
	reportRoutes.Get("/:id", h.HandleGetReportByID)
	reportRoutes.Put("/:id", h.HandleUpdateReport)
	reportRoutes.Delete("/:id", h.HandleDeleteReport)
}

// HandleCreateReport creates a new report.
func (h *ReportHandler) HandleCreateReport(c *fiber.Ctx) error {
	var report models.Report
	if err := c.BodyParser(&report); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	report.ID = 0
	if err := h.validate.Struct(report); err != nil {
		return validationJSON(c, err)
	}
	if err := h.reportService.CreateReport(&report); err != nil {
		log.Printf("Error creating report: %v", err)
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// HandleGetReports retrieves all reports ordered by id.
func (h *ReportHandler) HandleGetReports(c *fiber.Ctx) error {
	reports, err := h.reportService.GetAllReports()
	if err != nil {
		log.Printf("Error getting all reports: %v", err)
		return errorJSON(c, err)
	}
	return c.JSON(reports)
}

// HandleGetReportByID retrieves a single report.
func (h *ReportHandler) HandleGetReportByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	report, err := h.reportService.GetReportByID(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(report)
}

// HandleUpdateReport applies a partial update to a report.
func (h *ReportHandler) HandleUpdateReport(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	var patch models.ReportPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(patch); err != nil {
		return validationJSON(c, err)
	}
	report, err := h.reportService.UpdateReport(id, patch)
	if err != nil {
		log.Printf("Error updating report %d: %v", id, err)
		return errorJSON(c, err)
	}
	return c.JSON(report)
}

// HandleDeleteReport deletes a report by its ID.
func (h *ReportHandler) HandleDeleteReport(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	deleted, err := h.reportService.DeleteReport(id)
	if err != nil {
		log.Printf("Error deleting report %d: %v", id, err)
		return errorJSON(c, err)
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Report not found",
		})
	}
	return c.JSON(fiber.Map{"message": "Report deleted successfully"})
}
