// Package page provides CRUD operations for static site pages.
package page

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/db/models"
)

const (
	idQueryPattern   = "id = ?"
	slugQueryPattern = "slug = ?"
)

var (
	// ErrPageNotFound is returned when a page is not found.
	ErrPageNotFound = errors.New("page not found")
	// ErrPageTitleEmpty is returned when attempting to create/update a page with an empty title.
	ErrPageTitleEmpty = errors.New("page title cannot be empty")
	// ErrPageSlugEmpty is returned when attempting to create/update a page with an empty slug.
	ErrPageSlugEmpty = errors.New("page slug cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create creates a new page in the database.
func Create(db *gorm.DB, p *models.Page) error {
	if db == nil {
		return ErrDBNil
	}
	if p.Title == "" {
		return ErrPageTitleEmpty
	}
	if p.Slug == "" {
		return ErrPageSlugEmpty
	}

	return db.Create(p).Error
}

// GetByID retrieves a page by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.Page, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.Page
	result := db.Where(idQueryPattern, id).First(&p)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, result.Error
	}

	return &p, nil
}

// GetBySlug retrieves a page by its slug.
func GetBySlug(db *gorm.DB, slug string) (*models.Page, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if slug == "" {
		return nil, ErrPageSlugEmpty
	}

	var p models.Page
	result := db.Where(slugQueryPattern, slug).First(&p)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, result.Error
	}

	return &p, nil
}

// GetAll retrieves all pages ordered by sort order.
func GetAll(db *gorm.DB) ([]models.Page, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var pages []models.Page
	result := db.Order("sort_order, title").Find(&pages)
	if result.Error != nil {
		return nil, result.Error
	}

	return pages, nil
}

// GetPublished retrieves published pages only, ordered by sort order.
func GetPublished(db *gorm.DB) ([]models.Page, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var pages []models.Page
	result := db.Where("published = ?", true).Order("sort_order, title").Find(&pages)
	if result.Error != nil {
		return nil, result.Error
	}

	return pages, nil
}

// Update updates an existing page.
func Update(db *gorm.DB, p *models.Page) error {
	if db == nil {
		return ErrDBNil
	}
	if p.Title == "" {
		return ErrPageTitleEmpty
	}
	if p.Slug == "" {
		return ErrPageSlugEmpty
	}

	result := db.Model(&models.Page{}).Where(idQueryPattern, p.ID).Updates(map[string]any{
		"title":      p.Title,
		"slug":       p.Slug,
		"body":       p.Body,
		"image":      p.Image,
		"sort_order": p.SortOrder,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPageNotFound
	}

	return nil
}

// TogglePublish flips the publish flag of a page. PublishedAt is recorded
// on the first transition to published and preserved afterwards.
func TogglePublish(db *gorm.DB, id uint64) (*models.Page, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	p, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}

	p.Published = !p.Published
	updates := map[string]any{"published": p.Published}

	if p.Published && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
		updates["published_at"] = p.PublishedAt
	}

	if result := db.Model(p).Updates(updates); result.Error != nil {
		return nil, result.Error
	}

	return p, nil
}

// Delete deletes a page by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Where(idQueryPattern, id).Delete(&models.Page{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPageNotFound
	}

	return nil
}
