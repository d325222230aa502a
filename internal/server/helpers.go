package server

import (
	"errors"

	"postsio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// fail writes the failure envelope. The API reports every failure with HTTP
// 200 and {result: false, error}; only the envelope distinguishes outcomes.
func fail(c *fiber.Ctx, err error) error {
	return c.JSON(fiber.Map{"result": false, "error": errorMessage(err)})
}

// errorMessage extracts the user-facing message from an error, hiding the
// wrapped cause of internal errors.
func errorMessage(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
