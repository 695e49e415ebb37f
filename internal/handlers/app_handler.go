package handlers

import (
	"log"

	"appstore/internal/models"
	"appstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// appResponse augments an app with the IDs of the users who downloaded it.
type appResponse struct {
	models.App
	DownloadedByUsers []uint `json:"downloaded_by_users"`
}

func newAppResponse(app models.App, userIDs []uint) appResponse {
	if userIDs == nil {
		userIDs = []uint{}
	}
	return appResponse{App: app, DownloadedByUsers: userIDs}
}

// AppHandler handles HTTP requests for catalog apps.
type AppHandler struct {
	catalogService *services.CatalogService
	userService    *services.UserService
	reportService  *services.ReportService
	validate       *validator.Validate
}

// NewAppHandler creates a new AppHandler.
func NewAppHandler(
	catalogService *services.CatalogService,
	userService *services.UserService,
	reportService *services.ReportService,
) *AppHandler {
	return &AppHandler{
		catalogService: catalogService,
		userService:    userService,
		reportService:  reportService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the app routes with the Fiber app.
func (h *AppHandler) RegisterRoutes(router fiber.Router) {
	appRoutes := router.Group("/apps")
	appRoutes.Post("/", h.HandleCreateApp)
	appRoutes.Get("/", h.HandleGetApps)
	appRoutes.Get("/:id", h.HandleGetAppByID)
	appRoutes.Put("/:id", h.HandleUpdateApp)
	appRoutes.Delete("/:id", h.HandleDeleteApp)
	appRoutes.Get("/:id/users", h.HandleGetAppUsers)
	appRoutes.Get("/:id/reports", h.HandleGetAppReports)
}

func (h *AppHandler) respond(c *fiber.Ctx, status int, app models.App) error {
	userIDs, err := h.catalogService.GetDownloadedByUserIDs(app.ID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(status).JSON(newAppResponse(app, userIDs))
}

// CreateAppRequest represents the request body for creating an app.
type CreateAppRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=20"`
	URL            string  `json:"url" validate:"required,min=1,max=100"`
	ShortDescr     string  `json:"short_descr" validate:"required,min=1,max=100"`
	FullDescr      string  `json:"full_descr" validate:"required,min=1,max=1000"`
	Price          float64 `json:"price" validate:"gte=0"`
	AgeRestriction int     `json:"age_restriction" validate:"gte=0"`
	CategoryID     uint    `json:"category_id" validate:"required"`
}

// HandleCreateApp creates a new app in an existing category.
func (h *AppHandler) HandleCreateApp(c *fiber.Ctx) error {
	var req CreateAppRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationJSON(c, err)
	}

	app := models.App{
		Name:           req.Name,
		URL:            req.URL,
		ShortDescr:     req.ShortDescr,
		FullDescr:      req.FullDescr,
		Price:          req.Price,
		Rating:         5,
		AgeRestriction: req.AgeRestriction,
		CategoryID:     req.CategoryID,
	}
	if err := h.catalogService.CreateApp(&app); err != nil {
		log.Printf("Error creating app: %v", err)
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newAppResponse(app, nil))
}

// HandleGetApps retrieves all apps ordered by name.
func (h *AppHandler) HandleGetApps(c *fiber.Ctx) error {
	apps, err := h.catalogService.GetAllApps()
	if err != nil {
		log.Printf("Error getting all apps: %v", err)
		return errorJSON(c, err)
	}
	responses := make([]appResponse, 0, len(apps))
	for _, app := range apps {
		userIDs, err := h.catalogService.GetDownloadedByUserIDs(app.ID)
		if err != nil {
			return errorJSON(c, err)
		}
		responses = append(responses, newAppResponse(app, userIDs))
	}
	return c.JSON(responses)
}

// HandleGetAppByID retrieves a single app.
func (h *AppHandler) HandleGetAppByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	app, err := h.catalogService.GetAppByID(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return h.respond(c, fiber.StatusOK, *app)
}

// HandleUpdateApp applies a partial update to an app.
func (h *AppHandler) HandleUpdateApp(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	var patch models.AppPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(patch); err != nil {
		return validationJSON(c, err)
	}
	app, err := h.catalogService.UpdateApp(id, patch)
	if err != nil {
		log.Printf("Error updating app %d: %v", id, err)
		return errorJSON(c, err)
	}
	return h.respond(c, fiber.StatusOK, *app)
}

// HandleDeleteApp deletes an app along with its download links and reports.
func (h *AppHandler) HandleDeleteApp(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	deleted, err := h.catalogService.DeleteApp(id)
	if err != nil {
		log.Printf("Error deleting app %d: %v", id, err)
		return errorJSON(c, err)
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "App not found",
		})
	}
	return c.JSON(fiber.Map{"message": "App deleted successfully"})
}

// HandleGetAppUsers lists the users who downloaded an app.
func (h *AppHandler) HandleGetAppUsers(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	users, err := h.catalogService.GetUsersWhoDownloaded(id)
	if err != nil {
		return errorJSON(c, err)
	}
	responses := make([]userResponse, 0, len(users))
	for _, user := range users {
		appIDs, err := h.userService.GetDownloadedAppIDs(user.ID)
		if err != nil {
			return errorJSON(c, err)
		}
		responses = append(responses, newUserResponse(user, appIDs))
	}
	return c.JSON(responses)
}

// HandleGetAppReports lists the reports of an app.
func (h *AppHandler) HandleGetAppReports(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if _, err := h.catalogService.GetAppByID(id); err != nil {
		return errorJSON(c, err)
	}
	reports, err := h.reportService.GetReportsByApp(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(reports)
}
