package repositories

import (
	"context"
	"sort"
	"sync"

	"schooldir/internal/models"
)

// MockSchoolRepository is an in-memory implementation of SchoolRepository.
type MockSchoolRepository struct {
	schools map[uint]models.School
	lastID  uint
	mu      sync.RWMutex
}

// NewMockSchoolRepository creates a new instance of MockSchoolRepository.
func NewMockSchoolRepository() *MockSchoolRepository {
	return &MockSchoolRepository{
		schools: make(map[uint]models.School),
	}
}

// GetAll returns all schools, highest ID first.
func (r *MockSchoolRepository) GetAll(_ context.Context) ([]models.School, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schoolList := make([]models.School, 0, len(r.schools))
	for _, s := range r.schools {
		schoolList = append(schoolList, s)
	}
	sort.Slice(schoolList, func(i, j int) bool {
		return schoolList[i].ID > schoolList[j].ID
	})
	return schoolList, nil
}

// Create adds a new school and assigns the next ID.
func (r *MockSchoolRepository) Create(_ context.Context, school *models.School) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	school.ID = r.lastID
	r.schools[school.ID] = *school
	return nil
}

// Count returns the number of stored schools.
func (r *MockSchoolRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.schools)
}
