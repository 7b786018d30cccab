package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"promptdeck/models"
	"promptdeck/utils"
)

type CategoryController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewCategoryController(db *gorm.DB, logger *log.Logger) *CategoryController {
	return &CategoryController{
		DB:     db,
		Logger: logger,
	}
}

// CreateCategory inserts a category for a team the caller belongs to.
func (cc *CategoryController) CreateCategory(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Name     string `json:"name" validate:"required,max=100"`
		TeamID   string `json:"team_id" validate:"required,uuid"`
		IsGlobal bool   `json:"is_global"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if !user.IsAdmin() {
		if _, err := membershipFor(cc.DB, user.ID, input.TeamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrorResponse(c, fiber.StatusForbidden, "You are not a member of this team", nil)
			}
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check membership", err)
		}
	}

	category := models.Category{
		Name:      input.Name,
		TeamID:    input.TeamID,
		IsGlobal:  input.IsGlobal,
		CreatedBy: user.ID,
	}

	if err := cc.DB.Create(&category).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create category", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(category))
}

// GetCategories lists categories of the caller's teams, newest first.
// An optional team_id query narrows the list to that team, which keeps
// the category-team binding intact for creation forms.
func (cc *CategoryController) GetCategories(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Query("team_id")

	query := scopeToMemberTeams(cc.DB.Model(&models.Category{}), user, "categories").
		Preload("Team")

	if teamID != "" {
		query = query.Where("categories.team_id = ?", teamID)
	}

	var categories []models.Category
	if err := query.Order("categories.created_at DESC").Find(&categories).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch categories", err)
	}

	return c.JSON(utils.SuccessResponse(categories))
}

// DeleteCategory removes a category by id.
func (cc *CategoryController) DeleteCategory(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	categoryID := c.Params("id")

	var category models.Category
	if err := cc.DB.First(&category, "id = ?", categoryID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Category not found", nil)
	}

	if !user.IsAdmin() {
		if _, err := membershipFor(cc.DB, user.ID, category.TeamID); err != nil {
			return utils.ErrorResponse(c, fiber.StatusForbidden, "You are not a member of this team", nil)
		}
	}

	if err := cc.DB.Delete(&category).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete category", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": categoryID}))
}
