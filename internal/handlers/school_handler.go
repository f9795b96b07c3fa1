package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"schooldir/internal/middleware"
	"schooldir/internal/models"
	"schooldir/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SchoolHandler handles HTTP requests for school listings.
type SchoolHandler struct {
	service *services.SchoolService
}

// NewSchoolHandler creates a new SchoolHandler.
func NewSchoolHandler(service *services.SchoolService) *SchoolHandler {
	return &SchoolHandler{
		service: service,
	}
}

// RegisterRoutes registers the school routes with the Fiber app.
func (h *SchoolHandler) RegisterRoutes(router fiber.Router) {
	// Paths used by the existing front-end pages
	router.Post("/add-school", middleware.RequireMultipart(), h.HandleCreateSchool)
	router.Get("/get-schools", h.HandleGetSchools)

	schoolRoutes := router.Group("/schools")
	schoolRoutes.Post("/", middleware.RequireMultipart(), h.HandleCreateSchool)
	schoolRoutes.Get("/", h.HandleGetSchools)
}

// HandleGetSchools returns every school, newest first.
func (h *SchoolHandler) HandleGetSchools(c *fiber.Ctx) error {
	schools, err := h.service.ListSchools(c.UserContext())
	if err != nil {
		log.Printf("Error getting all schools: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve schools",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    schools,
	})
}

// HandleCreateSchool registers a school from a multipart submission.
func (h *SchoolHandler) HandleCreateSchool(c *fiber.Ctx) error {
	var form models.SchoolForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing school form: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	image, err := readImage(c)
	if err != nil {
		log.Printf("Error reading uploaded image: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Could not read image",
			"error":   err.Error(),
		})
	}

	school, err := h.service.RegisterSchool(c.UserContext(), form, image)
	if err != nil {
		return h.createError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "School added successfully",
		"school":  school,
	})
}

func (h *SchoolHandler) createError(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr) && len(vErr.Fields) > 0:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  vErr.Fields,
		})
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrUpstream):
		log.Printf("Error uploading school image: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"message": "Image upload failed",
			"error":   err.Error(),
		})
	default:
		log.Printf("Error creating school: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not save school",
			"error":   err.Error(),
		})
	}
}

// readImage returns the "image" file of the submission, or nil when the
// field is absent.
func readImage(c *fiber.Ctx) (*models.ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}
	files := form.File["image"]
	if len(files) == 0 {
		return nil, nil
	}
	return openImage(files[0])
}

func openImage(fh *multipart.FileHeader) (*models.ImageUpload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}
	return &models.ImageUpload{Filename: fh.Filename, Data: data}, nil
}
