package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"promptdeck/models"
	"promptdeck/utils"
)

// AdminController serves the unscoped lists behind the admin panels.
// Routes using it sit behind the AdminOnly middleware.
type AdminController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewAdminController(db *gorm.DB, logger *log.Logger) *AdminController {
	return &AdminController{
		DB:     db,
		Logger: logger,
	}
}

func (ac *AdminController) ListAllTeams(c *fiber.Ctx) error {
	var teams []models.Team
	if err := ac.DB.Order("created_at DESC").Find(&teams).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch teams", err)
	}
	return c.JSON(utils.SuccessResponse(teams))
}

func (ac *AdminController) ListAllCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := ac.DB.Preload("Team").Order("created_at DESC").Find(&categories).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch categories", err)
	}
	return c.JSON(utils.SuccessResponse(categories))
}

func (ac *AdminController) ListAllMembers(c *fiber.Ctx) error {
	var members []models.TeamMember
	err := ac.DB.Preload("User").Preload("Team").Order("created_at DESC").Find(&members).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch members", err)
	}
	return c.JSON(utils.SuccessResponse(members))
}
