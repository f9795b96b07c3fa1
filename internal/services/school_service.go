package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"

	"schooldir/internal/models"
	"schooldir/internal/repositories"
	"schooldir/pkg/cloudinary"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Error kinds reported by SchoolService. Use errors.Is to classify.
var (
	ErrValidation = errors.New("validation failed")
	ErrUpstream   = errors.New("image upload failed")
	ErrStore      = errors.New("store operation failed")

	ErrMissingImage     = errors.New("no image found")
	ErrUnsupportedImage = errors.New("only PNG, JPG or JPEG images are allowed")
	ErrImageTooLarge    = errors.New("image is too large")
)

// ValidationError describes a rejected submission. Fields maps form field
// names to messages when individual fields are invalid.
type ValidationError struct {
	Reason error
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e.Reason != nil {
		return e.Reason.Error()
	}
	return ErrValidation.Error()
}

func (e *ValidationError) Unwrap() []error {
	if e.Reason != nil {
		return []error{ErrValidation, e.Reason}
	}
	return []error{ErrValidation}
}

// ImageUploader stores an image with the image host.
type ImageUploader interface {
	Upload(ctx context.Context, image *models.ImageUpload) (*cloudinary.UploadResult, error)
}

// EventPublisher announces newly registered schools.
type EventPublisher interface {
	PublishSchoolRegistered(event models.SchoolRegisteredEvent) error
}

var allowedImageTypes = []string{"image/png", "image/jpeg"}

// SchoolService handles school registration and listing.
type SchoolService struct {
	repo          repositories.SchoolRepository
	uploader      ImageUploader
	publisher     EventPublisher // optional
	validate      *validator.Validate
	maxImageBytes int
}

// NewSchoolService creates a new SchoolService. publisher may be nil.
func NewSchoolService(repo repositories.SchoolRepository, uploader ImageUploader, publisher EventPublisher, maxImageBytes int) *SchoolService {
	return &SchoolService{
		repo:          repo,
		uploader:      uploader,
		publisher:     publisher,
		validate:      newValidator(),
		maxImageBytes: maxImageBytes,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	// Report fields by their form names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// RegisterSchool validates the submission, uploads the image and inserts
// the school. The row is only written once the image host has returned a
// location.
func (s *SchoolService) RegisterSchool(ctx context.Context, form models.SchoolForm, image *models.ImageUpload) (*models.School, error) {
	if err := s.validateForm(form); err != nil {
		return nil, err
	}
	if err := s.validateImage(image); err != nil {
		return nil, err
	}

	uploaded, err := s.uploader.Upload(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if uploaded == nil || uploaded.SecureURL == "" {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, cloudinary.ErrNoLocation)
	}

	school := form.ToSchool(uploaded.SecureURL)
	if err := s.repo.Create(ctx, school); err != nil {
		log.Printf("Insert failed after upload; image %s is not referenced by any school", uploaded.PublicID)
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}

	s.publishRegistered(school)
	return school, nil
}

// ListSchools returns every school, most recently registered first.
func (s *SchoolService) ListSchools(ctx context.Context) ([]models.School, error) {
	schools, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	if schools == nil {
		schools = []models.School{}
	}
	return schools, nil
}

func (s *SchoolService) validateForm(form models.SchoolForm) error {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &ValidationError{Reason: err}
	}
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Field()] = fieldMessage(e)
	}
	return &ValidationError{Fields: fields}
}

func (s *SchoolService) validateImage(image *models.ImageUpload) error {
	if image == nil || len(image.Data) == 0 {
		return &ValidationError{Reason: ErrMissingImage}
	}
	if s.maxImageBytes > 0 && len(image.Data) > s.maxImageBytes {
		return &ValidationError{Reason: fmt.Errorf("%w: %d bytes exceeds %d", ErrImageTooLarge, len(image.Data), s.maxImageBytes)}
	}

	detected := mimetype.Detect(image.Data)
	for _, allowed := range allowedImageTypes {
		if detected.Is(allowed) {
			image.ContentType = allowed
			return nil
		}
	}
	return &ValidationError{Reason: fmt.Errorf("%w (got %s)", ErrUnsupportedImage, detected.String())}
}

func (s *SchoolService) publishRegistered(school *models.School) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSchoolRegistered(models.NewSchoolRegisteredEvent(school)); err != nil {
		log.Printf("Warning: failed to publish registration event for school %d: %v", school.ID, err)
	}
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", e.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", e.Field(), e.Param())
	case "number":
		return fmt.Sprintf("%s must contain digits only", e.Field())
	case "email":
		return "Invalid email address"
	default:
		return fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
}
