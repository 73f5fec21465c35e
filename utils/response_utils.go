package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RespondWithError sends a JSON error response.
func RespondWithError(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

// RespondWithJSON sends a JSON success response.
func RespondWithJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

// FormatValidationErrors flattens validator/v10 errors into readable
// per-field messages.
func FormatValidationErrors(err error) []string {
	var messages []string
	var verrs validator.ValidationErrors
	if errors, ok := err.(validator.ValidationErrors); ok {
		verrs = errors
	}
	for _, fe := range verrs {
		msg := fmt.Sprintf("field '%s' failed on the '%s' rule", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("%s (param: %s)", msg, fe.Param())
		}
		messages = append(messages, msg)
	}
	if len(messages) == 0 && err != nil {
		messages = append(messages, err.Error())
	}
	return messages
}

// SanitizeInput trims surrounding whitespace from user-entered strings.
func SanitizeInput(input string) string {
	return strings.TrimSpace(input)
}
