package handlers

import (
	"log"

	"appstore/internal/models"
	"appstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// RegisterMeRoute registers the current-user route behind the given auth middleware.
func (h *AuthHandler) RegisterMeRoute(router fiber.Router, authRequired fiber.Handler) {
	router.Get("/users/me", authRequired, h.HandleMe)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Login    string `json:"login" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Name     string `json:"name" validate:"required,min=1,max=50"`
	Password string `json:"password" validate:"required,min=6,max=50"`
	Age      int    `json:"age" validate:"gte=0,lte=120"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
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
		log.Printf("Error registering user: %v", err)
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(newUserResponse(user, nil))
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Login    string `json:"login" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=50"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationJSON(c, err)
	}

	token, err := h.authService.LoginUser(req.Login, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Login, err)
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// HandleMe returns the authenticated user.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Missing authenticated user",
		})
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		return errorJSON(c, err)
	}
	appIDs, err := h.userService.GetDownloadedAppIDs(userID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(newUserResponse(*user, appIDs))
}
