package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequireMultipart is a Fiber middleware that rejects requests whose body is
// not multipart/form-data before any parsing takes place.
func RequireMultipart() fiber.Handler {
	return func(c *fiber.Ctx) error {
		contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
		if !strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
				"success": false,
				"message": "Request body must be multipart/form-data",
			})
		}
		return c.Next()
	}
}
