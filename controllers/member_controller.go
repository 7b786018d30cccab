package controller

import (
	"errors"
	"log"

	"github.com/badoux/checkmail"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"promptdeck/models"
	"promptdeck/utils"
)

type MemberController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewMemberController(db *gorm.DB, logger *log.Logger) *MemberController {
	return &MemberController{
		DB:     db,
		Logger: logger,
	}
}

// AddMember resolves an email to an existing account and inserts a
// membership row for the team. There is no out-of-band invitation;
// the account must already exist.
func (mc *MemberController) AddMember(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		TeamID string `json:"team_id" validate:"required,uuid"`
		Email  string `json:"email" validate:"required,email"`
		Role   string `json:"role" validate:"omitempty,oneof=owner admin member"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if err := checkmail.ValidateFormat(input.Email); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid email address", err)
	}

	if input.Role == "" {
		input.Role = models.TeamRoleMember
	}

	if !user.IsAdmin() {
		membership, err := membershipFor(mc.DB, user.ID, input.TeamID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrorResponse(c, fiber.StatusForbidden, "You are not a member of this team", nil)
			}
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check membership", err)
		}
		if !membership.CanManageTeam() {
			return utils.ErrorResponse(c, fiber.StatusForbidden, "Only team owners and admins can add members", nil)
		}
	}

	var team models.Team
	if err := mc.DB.First(&team, "id = ?", input.TeamID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
	}

	// Resolve email to an existing profile
	var target models.User
	if err := mc.DB.Where("email = ?", input.Email).First(&target).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "No account found for that email", nil)
	}

	var existing models.TeamMember
	if err := mc.DB.Where("team_id = ? AND user_id = ?", input.TeamID, target.ID).First(&existing).Error; err == nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "User is already a member of this team", nil)
	}

	membership := models.TeamMember{
		TeamID: input.TeamID,
		UserID: target.ID,
		Role:   input.Role,
	}

	if err := mc.DB.Create(&membership).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add member", err)
	}

	mc.Logger.Printf("user %s added to team %s as %s", target.ID, input.TeamID, input.Role)

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(membership))
}

// GetMembers lists memberships with their user profile and team name
// expanded by the query layer.
func (mc *MemberController) GetMembers(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Query("team_id")

	query := mc.DB.Model(&models.TeamMember{}).
		Preload("User").
		Preload("Team")

	if !user.IsAdmin() {
		visibleTeams := mc.DB.Model(&models.TeamMember{}).
			Select("team_id").
			Where("user_id = ?", user.ID)
		query = query.Where("team_members.team_id IN (?)", visibleTeams)
	}

	if teamID != "" {
		query = query.Where("team_members.team_id = ?", teamID)
	}

	var members []models.TeamMember
	if err := query.Order("team_members.created_at DESC").Find(&members).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch members", err)
	}

	return c.JSON(utils.SuccessResponse(members))
}

// RemoveMember deletes a membership row by id.
func (mc *MemberController) RemoveMember(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	memberID := c.Params("id")

	var membership models.TeamMember
	if err := mc.DB.First(&membership, "id = ?", memberID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Membership not found", nil)
	}

	if !user.IsAdmin() {
		own, err := membershipFor(mc.DB, user.ID, membership.TeamID)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusForbidden, "You are not a member of this team", nil)
		}
		// Members may remove themselves; managing others needs a
		// management role.
		if membership.UserID != user.ID && !own.CanManageTeam() {
			return utils.ErrorResponse(c, fiber.StatusForbidden, "Only team owners and admins can remove members", nil)
		}
	}

	if err := mc.DB.Delete(&membership).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to remove member", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": memberID}))
}
