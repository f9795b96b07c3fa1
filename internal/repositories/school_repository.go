package repositories

import (
	"context"

	"schooldir/internal/models"
)

// SchoolRepository defines the interface for school data access.
type SchoolRepository interface {
	// GetAll returns every school, most recently created first.
	GetAll(ctx context.Context) ([]models.School, error)
	// Create inserts a new school and sets its store-assigned ID.
	Create(ctx context.Context, school *models.School) error
}
