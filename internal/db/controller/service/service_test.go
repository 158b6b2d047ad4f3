package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Service{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedServices(t *testing.T, db *gorm.DB, services []models.Service) {
	t.Helper()
	for i := range services {
		err := db.Create(&services[i]).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	require.ErrorIs(t, Create(nil, &models.Service{Title: "Hosting", Slug: "hosting"}), ErrDBNil)
	require.ErrorIs(t, Create(db, &models.Service{Slug: "hosting"}), ErrServiceTitleEmpty)
	require.ErrorIs(t, Create(db, &models.Service{Title: "Hosting"}), ErrServiceSlugEmpty)

	s := models.Service{Title: "Web Hosting", Slug: "web-hosting", Icon: "fa-server"}
	require.NoError(t, Create(db, &s))
	assert.NotZero(t, s.ID)
}

func TestGetAllOrdering(t *testing.T) {
	db := setupTestDB(t)

	seedServices(t, db, []models.Service{
		{Title: "Consulting", Slug: "consulting", SortOrder: 3},
		{Title: "Hosting", Slug: "hosting", SortOrder: 1, Published: true},
		{Title: "Design", Slug: "design", SortOrder: 2},
	})

	all, err := GetAll(db)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Hosting", all[0].Title)
	assert.Equal(t, "Design", all[1].Title)
	assert.Equal(t, "Consulting", all[2].Title)

	published, err := GetPublished(db)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "Hosting", published[0].Title)
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)

	seedServices(t, db, []models.Service{
		{Title: "Hosting", Slug: "hosting"},
	})

	var s models.Service
	require.NoError(t, db.Where("slug = ?", "hosting").First(&s).Error)

	s.Title = "Managed Hosting"
	s.Description = "Fully managed."
	require.NoError(t, Update(db, &s))

	updated, err := GetByID(db, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Managed Hosting", updated.Title)
	assert.Equal(t, "Fully managed.", updated.Description)
}

func TestTogglePublish(t *testing.T) {
	db := setupTestDB(t)

	seedServices(t, db, []models.Service{
		{Title: "Hosting", Slug: "hosting"},
	})

	var s models.Service
	require.NoError(t, db.Where("slug = ?", "hosting").First(&s).Error)

	published, err := TogglePublish(db, s.ID)
	require.NoError(t, err)
	assert.True(t, published.Published)
	require.NotNil(t, published.PublishedAt)
	first := *published.PublishedAt

	unpublished, err := TogglePublish(db, s.ID)
	require.NoError(t, err)
	assert.False(t, unpublished.Published)
	require.NotNil(t, unpublished.PublishedAt)
	assert.Equal(t, first.Unix(), unpublished.PublishedAt.Unix())
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	seedServices(t, db, []models.Service{
		{Title: "Doomed", Slug: "doomed"},
	})

	var s models.Service
	require.NoError(t, db.Where("slug = ?", "doomed").First(&s).Error)

	require.NoError(t, Delete(db, s.ID))
	require.ErrorIs(t, Delete(db, s.ID), ErrServiceNotFound)
}
