package httpapi

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondWithError sends a JSON error response.
func respondWithError(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

// respondWithJSON sends a JSON success response.
func respondWithJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

// formatValidationErrors flattens validator/v10 errors into messages.
func formatValidationErrors(err error) []string {
	var messages []string
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range errs {
			msg := fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
			if e.Param() != "" {
				msg = fmt.Sprintf("%s (value: %s)", msg, e.Param())
			}
			messages = append(messages, msg)
		}
	}
	return messages
}
