package repositories

import (
	"context"
	"fmt"

	"schooldir/internal/models"

	"gorm.io/gorm"
)

// GORMSchoolRepository is a GORM implementation of SchoolRepository.
type GORMSchoolRepository struct {
	db *gorm.DB
}

// NewGORMSchoolRepository creates a new instance of GORMSchoolRepository.
func NewGORMSchoolRepository(db *gorm.DB) *GORMSchoolRepository {
	return &GORMSchoolRepository{
		db: db,
	}
}

// GetAll retrieves all schools from the database ordered by ID descending.
func (r *GORMSchoolRepository) GetAll(ctx context.Context) ([]models.School, error) {
	schools := make([]models.School, 0)
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&schools).Error; err != nil {
		return nil, fmt.Errorf("failed to get all schools: %w", err)
	}
	return schools, nil
}

// Create inserts a new school row. GORM binds every value as a statement
// parameter, so form input never reaches the SQL text.
func (r *GORMSchoolRepository) Create(ctx context.Context, school *models.School) error {
	school.ID = 0 // always store-assigned
	if err := r.db.WithContext(ctx).Create(school).Error; err != nil {
		return fmt.Errorf("failed to create school: %w", err)
	}
	return nil
}
