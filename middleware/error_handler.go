package middleware

import (
	"github.com/gofiber/fiber/v2"

	"okrtracker/utils"
)

// ErrorHandler turns every error a handler returns into the JSON error
// body. Internal failures are logged and answered with a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	appErr := utils.AsAppError(err)
	if appErr.Status >= fiber.StatusInternalServerError {
		utils.LogError("request_failed", err, map[string]interface{}{
			"method":     c.Method(),
			"path":       c.Path(),
			"request_id": c.Locals("requestid"),
		})
	}
	return c.Status(appErr.Status).JSON(appErr.Body())
}
