package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"promptdeck/models"
	"promptdeck/utils"
)

type TeamController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewTeamController(db *gorm.DB, logger *log.Logger) *TeamController {
	return &TeamController{
		DB:     db,
		Logger: logger,
	}
}

// membershipFor returns the caller's membership row for a team, or
// gorm.ErrRecordNotFound if they hold none.
func membershipFor(db *gorm.DB, userID, teamID string) (*models.TeamMember, error) {
	var membership models.TeamMember
	err := db.Where("user_id = ? AND team_id = ?", userID, teamID).First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// scopeToMemberTeams narrows a query on a team-owned table to rows whose
// team the user holds a membership for. Platform admins see everything.
// The teams table itself joins on its primary key, not a team_id column.
func scopeToMemberTeams(db *gorm.DB, user *models.User, table string) *gorm.DB {
	if user.IsAdmin() {
		return db
	}
	column := table + ".team_id"
	if table == "teams" {
		column = "teams.id"
	}
	return db.Joins(
		"JOIN team_members ON team_members.team_id = "+column+" AND team_members.user_id = ?",
		user.ID,
	)
}

// CreateTeam inserts a team and adds the creator as its owner in one
// transaction.
func (tc *TeamController) CreateTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Name        string `json:"name" validate:"required,max=100"`
		Description string `json:"description" validate:"omitempty,max=500"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	team := models.Team{
		Name:        input.Name,
		Description: input.Description,
		CreatedBy:   user.ID,
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			return err
		}
		membership := models.TeamMember{
			TeamID: team.ID,
			UserID: user.ID,
			Role:   models.TeamRoleOwner,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create team", err)
	}

	tc.Logger.Printf("team %s created by user %s", team.ID, user.ID)
	utils.LogEvent("team_created", map[string]interface{}{
		"team_id": team.ID,
		"user_id": user.ID,
	})

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(team))
}

// GetTeams lists the teams the caller is a member of, newest first.
func (tc *TeamController) GetTeams(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var teams []models.Team
	err := scopeToMemberTeams(tc.DB.Model(&models.Team{}), user, "teams").
		Order("teams.created_at DESC").
		Find(&teams).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch teams", err)
	}

	return c.JSON(utils.SuccessResponse(teams))
}

// DeleteTeam removes a team; memberships, categories and prompts cascade
// at the store layer.
func (tc *TeamController) DeleteTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Params("id")

	var team models.Team
	if err := tc.DB.First(&team, "id = ?", teamID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
	}

	if !user.IsAdmin() {
		membership, err := membershipFor(tc.DB, user.ID, teamID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrorResponse(c, fiber.StatusForbidden, "You are not a member of this team", nil)
			}
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check membership", err)
		}
		if !membership.CanManageTeam() {
			return utils.ErrorResponse(c, fiber.StatusForbidden, "Only team owners and admins can delete a team", nil)
		}
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		// Cascade order matters on stores without FK enforcement
		if err := tx.Where("team_id = ?", teamID).Delete(&models.Prompt{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", teamID).Delete(&models.Category{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", teamID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&team).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete team", err)
	}

	tc.Logger.Printf("team %s deleted by user %s", teamID, user.ID)
	utils.LogEvent("team_deleted", map[string]interface{}{
		"team_id": teamID,
		"user_id": user.ID,
	})

	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": teamID}))
}
