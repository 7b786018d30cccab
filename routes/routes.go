package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"promptdeck/config"
	controller "promptdeck/controllers"
	"promptdeck/middleware"
	"promptdeck/utils"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	// Auth routes group with logging middleware
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints (no authentication required)
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)
	auth.Post("/refresh", controller.RefreshToken)

	// Google OAuth routes
	auth.Get("/google", controller.GoogleOAuth)
	auth.Get("/google/callback", controller.GoogleOAuthCallback)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", controller.Logout)
	protectedAuth.Get("/me", controller.GetCurrentUser)

	// OTP routes group
	otp := app.Group("/otp", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	otp.Post("/verify", controller.VerifyEmailOTP)
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB) {
	teamController := controller.NewTeamController(db, log.New(os.Stdout, "TEAM: ", log.LstdFlags))
	categoryController := controller.NewCategoryController(db, log.New(os.Stdout, "CATEGORY: ", log.LstdFlags))
	memberController := controller.NewMemberController(db, log.New(os.Stdout, "MEMBER: ", log.LstdFlags))
	promptController := controller.NewPromptController(db, log.New(os.Stdout, "PROMPT: ", log.LstdFlags))
	adminController := controller.NewAdminController(db, log.New(os.Stdout, "ADMIN: ", log.LstdFlags))
	improveController := controller.NewImproveController(
		utils.NewImprover(config.AppConfig.OpenAI),
		log.New(os.Stdout, "IMPROVE: ", log.LstdFlags),
	)

	// API group with versioning and protection
	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Team routes
	team := api.Group("/teams")
	team.Post("/", teamController.CreateTeam)
	team.Get("/", teamController.GetTeams)
	team.Delete("/:id", teamController.DeleteTeam)

	// Category routes
	category := api.Group("/categories")
	category.Post("/", categoryController.CreateCategory)
	category.Get("/", categoryController.GetCategories)
	category.Delete("/:id", categoryController.DeleteCategory)

	// Membership routes
	member := api.Group("/members")
	member.Post("/", memberController.AddMember)
	member.Get("/", memberController.GetMembers)
	member.Delete("/:id", memberController.RemoveMember)

	// Prompt routes
	prompt := api.Group("/prompts")
	prompt.Post("/", promptController.CreatePrompt)
	prompt.Get("/", promptController.GetPrompts)
	prompt.Post("/improve", improveController.ImprovePrompt)
	prompt.Get("/:id", promptController.GetPrompt)
	prompt.Delete("/:id", promptController.DeletePrompt)

	// Admin routes (profile role gated)
	admin := api.Group("/admin", middleware.AdminOnly())
	admin.Get("/teams", adminController.ListAllTeams)
	admin.Get("/categories", adminController.ListAllCategories)
	admin.Get("/members", adminController.ListAllMembers)
}

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Setup auth routes
	SetupAuthRoutes(app, db)

	// Setup API routes
	SetupAPIRoutes(app, db)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
