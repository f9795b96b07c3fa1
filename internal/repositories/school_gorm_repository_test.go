package repositories_test

import (
	"context"
	"fmt"
	"testing"

	"schooldir/internal/models"
	"schooldir/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.School{}))
	return db
}

func newSchool(name string) *models.School {
	return &models.School{
		Name:    name,
		Address: "12 Station Road",
		City:    "Pune",
		State:   "Maharashtra",
		Contact: "9876543210",
		EmailID: "office@example.edu",
		Image:   "https://res.cloudinary.com/demo/image/upload/schools/a.png",
	}
}

func TestGORMSchoolRepository_GetAllEmpty(t *testing.T) {
	repo := repositories.NewGORMSchoolRepository(setupDB(t))

	schools, err := repo.GetAll(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, schools)
	assert.Empty(t, schools)
}

func TestGORMSchoolRepository_CreateAssignsIncreasingIDs(t *testing.T) {
	repo := repositories.NewGORMSchoolRepository(setupDB(t))
	ctx := context.Background()

	first := newSchool("Green Valley School")
	second := newSchool("Green Valley School") // duplicates are allowed
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)
}

func TestGORMSchoolRepository_CreateIgnoresCallerID(t *testing.T) {
	repo := repositories.NewGORMSchoolRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSchool("First School")))
	s := newSchool("Second School")
	s.ID = 500
	require.NoError(t, repo.Create(ctx, s))
	assert.Equal(t, uint(2), s.ID)
}

func TestGORMSchoolRepository_GetAllNewestFirst(t *testing.T) {
	repo := repositories.NewGORMSchoolRepository(setupDB(t))
	ctx := context.Background()

	names := []string{"Alpha School", "Beta School", "Gamma School"}
	for _, n := range names {
		require.NoError(t, repo.Create(ctx, newSchool(n)))
	}

	schools, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, schools, 3)
	assert.Equal(t, "Gamma School", schools[0].Name)
	assert.Equal(t, "Alpha School", schools[2].Name)
	for i := 1; i < len(schools); i++ {
		assert.Greater(t, schools[i-1].ID, schools[i].ID)
	}
	assert.Equal(t, "office@example.edu", schools[0].EmailID)
}

func TestGORMSchoolRepository_StoreFailure(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMSchoolRepository(db)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.GetAll(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get all schools")

	err = repo.Create(context.Background(), newSchool("Closed School"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create school")
}
