package handlers

import (
	"log"

	"appstore/internal/models"
	"appstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// userResponse augments a user with the IDs of their downloaded apps.
// The password hash never leaves the server (json:"-" on the model).
type userResponse struct {
	models.User
	DownloadedApps []uint `json:"downloaded_apps"`
}

func newUserResponse(user models.User, appIDs []uint) userResponse {
	if appIDs == nil {
		appIDs = []uint{}
	}
	return userResponse{User: user, DownloadedApps: appIDs}
}

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	userService     *services.UserService
	authService     *services.AuthService
	reportService   *services.ReportService
	downloadService *services.DownloadService
	validate        *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(
	userService *services.UserService,
	authService *services.AuthService,
	reportService *services.ReportService,
	downloadService *services.DownloadService,
) *UserHandler {
	return &UserHandler{
		userService:     userService,
		authService:     authService,
		reportService:   reportService,
		downloadService: downloadService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Get("/:id", h.HandleGetUserByID)
	userRoutes.Put("/:id", h.HandleUpdateUser)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
	userRoutes.Get("/:id/apps", h.HandleGetDownloadedApps)
	userRoutes.Get("/:id/reports", h.HandleGetUserReports)
	userRoutes.Post("/:id/download/:app_id", h.HandleDownloadApp)
}

func (h *UserHandler) respond(c *fiber.Ctx, status int, user models.User) error {
	appIDs, err := h.userService.GetDownloadedAppIDs(user.ID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(status).JSON(newUserResponse(user, appIDs))
}

// HandleCreateUser creates a user directly, hashing the supplied password.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationJSON(c, err)
	}

	user := models.User{
		Login:    req.Login,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Age:      req.Age,
	}
	if err := h.authService.RegisterUser(&user); err != nil {
		log.Printf("Error creating user: %v", err)
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newUserResponse(user, nil))
}

// HandleGetUsers retrieves all users ordered by creation time.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers()
	if err != nil {
		log.Printf("Error getting all users: %v", err)
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

// HandleGetUserByID retrieves a single user.
func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	user, err := h.userService.GetUserByID(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return h.respond(c, fiber.StatusOK, *user)
}

// HandleUpdateUser applies a partial update to a user.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	var patch models.UserPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(patch); err != nil {
		return validationJSON(c, err)
	}

	user, err := h.userService.UpdateUser(id, patch)
	if err != nil {
		log.Printf("Error updating user %d: %v", id, err)
		return errorJSON(c, err)
	}
	return h.respond(c, fiber.StatusOK, *user)
}

// HandleDeleteUser deletes a user along with their download links and reports.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	deleted, err := h.userService.DeleteUser(id)
	if err != nil {
		log.Printf("Error deleting user %d: %v", id, err)
		return errorJSON(c, err)
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User not found",
		})
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// HandleGetDownloadedApps lists the apps a user has downloaded.
func (h *UserHandler) HandleGetDownloadedApps(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	apps, err := h.userService.GetDownloadedApps(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(apps)
}

// HandleGetUserReports lists the reports written by a user.
func (h *UserHandler) HandleGetUserReports(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if _, err := h.userService.GetUserByID(id); err != nil {
		return errorJSON(c, err)
	}
	reports, err := h.reportService.GetReportsByUser(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(reports)
}

// HandleDownloadApp purchases an app for a user.
func (h *UserHandler) HandleDownloadApp(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	appID, err := parseIDParam(c, "app_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	result, err := h.downloadService.Download(userID, appID)
	if err != nil {
		log.Printf("Error downloading app %d for user %d: %v", appID, userID, err)
		return errorJSON(c, err)
	}
	if result.AlreadyDownloaded {
		return c.JSON(fiber.Map{
			"message": "App already downloaded",
			"balance": result.User.Balance,
		})
	}
	return c.JSON(fiber.Map{
		"message": "App downloaded successfully",
		"balance": result.User.Balance,
	})
}
