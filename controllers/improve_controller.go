package controller

import (
	"log"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"promptdeck/utils"
)

type ImproveController struct {
	Improver *utils.Improver
	Logger   *log.Logger
}

func NewImproveController(improver *utils.Improver, logger *log.Logger) *ImproveController {
	return &ImproveController{
		Improver: improver,
		Logger:   logger,
	}
}

type ImproveRequest struct {
	Prompt string `json:"prompt"`
}

// ImprovePrompt forwards prompt text to the hosted model and relays the
// rewritten text back. Provider failures collapse to one generic
// message; the cause is only logged.
func (ic *ImproveController) ImprovePrompt(c *fiber.Ctx) error {
	var req ImproveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No prompt provided",
		})
	}

	if req.Prompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No prompt provided",
		})
	}

	if utf8.RuneCountInString(req.Prompt) > utils.MaxImprovePromptLen {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Prompt is too long",
		})
	}

	improved, err := ic.Improver.Improve(c.Context(), req.Prompt)
	if err != nil {
		utils.LogError("improve_prompt", err, map[string]interface{}{
			"prompt_len": len(req.Prompt),
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to improve prompt",
		})
	}

	return c.JSON(fiber.Map{
		"improved": improved,
	})
}
