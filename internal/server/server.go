package server

import (
	"time"

	"schooldir/internal/handlers"
	"schooldir/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// formOverhead leaves room for the text fields and multipart framing on top
// of the image itself.
const formOverhead = 64 << 10

// Options configures the HTTP application.
type Options struct {
	SchoolService  *services.SchoolService
	UploadMaxBytes int
	// DisableAccessLog turns off the request logger (tests).
	DisableAccessLog bool
}

// New builds the Fiber app with middleware and all routes registered.
func New(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "schooldir",
		BodyLimit:    opts.UploadMaxBytes + formOverhead,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if !opts.DisableAccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
		}))
	}
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	api := app.Group("/api")
	handlers.NewSchoolHandler(opts.SchoolService).RegisterRoutes(api)

	return app
}
