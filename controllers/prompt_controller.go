package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"promptdeck/models"
	"promptdeck/utils"
)

type PromptController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewPromptController(db *gorm.DB, logger *log.Logger) *PromptController {
	return &PromptController{
		DB:     db,
		Logger: logger,
	}
}

// CreatePrompt inserts a prompt. The caller must belong to the team and
// the category must belong to the same team.
func (pc *PromptController) CreatePrompt(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Title       string `json:"title" validate:"required,max=200"`
		Description string `json:"description" validate:"omitempty,max=500"`
		Content     string `json:"content" validate:"required"`
		CategoryID  string `json:"category_id" validate:"required,uuid"`
		TeamID      string `json:"team_id" validate:"required,uuid"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if !user.IsAdmin() {
		if _, err := membershipFor(pc.DB, user.ID, input.TeamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrorResponse(c, fiber.StatusForbidden, "You are not a member of this team", nil)
			}
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check membership", err)
		}
	}

	// The category must belong to the same team as the prompt
	var category models.Category
	if err := pc.DB.First(&category, "id = ?", input.CategoryID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Category not found", nil)
	}
	if category.TeamID != input.TeamID {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Category does not belong to the selected team", nil)
	}

	prompt := models.Prompt{
		Title:       input.Title,
		Description: input.Description,
		Content:     input.Content,
		CategoryID:  input.CategoryID,
		TeamID:      input.TeamID,
		CreatedBy:   user.ID,
	}

	if err := pc.DB.Create(&prompt).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create prompt", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(prompt))
}

// GetPrompts lists the board: prompts of the caller's teams with
// category and team expanded, newest first. Optional team_id and q
// filters are pushed into the query.
func (pc *PromptController) GetPrompts(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Query("team_id")
	search := c.Query("q")

	query := scopeToMemberTeams(pc.DB.Model(&models.Prompt{}), user, "prompts").
		Preload("Category").
		Preload("Team")

	if teamID != "" {
		query = query.Where("prompts.team_id = ?", teamID)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("prompts.title LIKE ? OR prompts.description LIKE ?", pattern, pattern)
	}

	var prompts []models.Prompt
	if err := query.Order("prompts.created_at DESC").Find(&prompts).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch prompts", err)
	}

	return c.JSON(utils.SuccessResponse(prompts))
}

// GetPrompt returns a single prompt. Content is returned exactly as
// stored.
func (pc *PromptController) GetPrompt(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	promptID := c.Params("id")

	var prompt models.Prompt
	err := pc.DB.Preload("Category").Preload("Team").First(&prompt, "id = ?", promptID).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Prompt not found", nil)
	}

	if !user.IsAdmin() {
		if _, err := membershipFor(pc.DB, user.ID, prompt.TeamID); err != nil {
			return utils.ErrorResponse(c, fiber.StatusForbidden, "You are not a member of this team", nil)
		}
	}

	return c.JSON(utils.SuccessResponse(prompt))
}

// DeletePrompt removes a prompt by id.
func (pc *PromptController) DeletePrompt(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	promptID := c.Params("id")

	var prompt models.Prompt
	if err := pc.DB.First(&prompt, "id = ?", promptID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Prompt not found", nil)
	}

	if !user.IsAdmin() {
		if _, err := membershipFor(pc.DB, user.ID, prompt.TeamID); err != nil {
			return utils.ErrorResponse(c, fiber.StatusForbidden, "You are not a member of this team", nil)
		}
	}

	if err := pc.DB.Delete(&prompt).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete prompt", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": promptID}))
}
