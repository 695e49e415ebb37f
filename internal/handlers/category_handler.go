package handlers

import (
	"log"

	"appstore/internal/models"
	"appstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	catalogService *services.CatalogService
	validate       *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(catalogService *services.CatalogService) *CategoryHandler {
	return &CategoryHandler{
		catalogService: catalogService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the category routes with the Fiber app.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Post("/", h.HandleCreateCategory)
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategoryByID)
	categoryRoutes.Put("/:id", h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", h.HandleDeleteCategory)
	categoryRoutes.Get("/:id/apps", h.HandleGetCategoryApps)
}

// HandleCreateCategory creates a new category.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	category.ID = 0
	if err := h.validate.Struct(category); err != nil {
		return validationJSON(c, err)
	}
	if err := h.catalogService.CreateCategory(&category); err != nil {
		log.Printf("Error creating category: %v", err)
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleGetCategories retrieves all categories ordered by name.
func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.catalogService.GetAllCategories()
	if err != nil {
		log.Printf("Error getting all categories: %v", err)
		return errorJSON(c, err)
	}
	return c.JSON(categories)
}

// HandleGetCategoryByID retrieves a single category.
func (h *CategoryHandler) HandleGetCategoryByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	category, err := h.catalogService.GetCategoryByID(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(category)
}

// HandleUpdateCategory applies a partial update to a category.
func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	var patch models.CategoryPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(patch); err != nil {
		return validationJSON(c, err)
	}
	category, err := h.catalogService.UpdateCategory(id, patch)
	if err != nil {
		log.Printf("Error updating category %d: %v", id, err)
		return errorJSON(c, err)
	}
	return c.JSON(category)
}

// HandleDeleteCategory deletes a category without apps.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	deleted, err := h.catalogService.DeleteCategory(id)
	if err != nil {
		log.Printf("Error deleting category %d: %v", id, err)
		return errorJSON(c, err)
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Category not found",
		})
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}

// HandleGetCategoryApps lists the apps of one category ordered by name.
func (h *CategoryHandler) HandleGetCategoryApps(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if _, err := h.catalogService.GetCategoryByID(id); err != nil {
		return errorJSON(c, err)
	}
	apps, err := h.catalogService.GetAppsByCategory(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(apps)
}
