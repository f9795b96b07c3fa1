package server

import (
	"errors"
	"log"

	"schooldir/internal/services"

	"github.com/gofiber/fiber/v2"
)

// errorHandler renders errors that never reach a handler (body limit,
// unknown route or method, recovered panics) in the same JSON shape the
// handlers use.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	// An oversized body is almost always an oversized image.
	if code == fiber.StatusRequestEntityTooLarge {
		code = fiber.StatusBadRequest
		message = services.ErrImageTooLarge.Error()
	}

	if code >= fiber.StatusInternalServerError {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}
