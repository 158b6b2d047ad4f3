// Package service provides CRUD operations for offered services.
package service

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
	// ErrServiceNotFound is returned when a service is not found.
	ErrServiceNotFound = errors.New("service not found")
	// ErrServiceTitleEmpty is returned when attempting to create/update a service with an empty title.
	ErrServiceTitleEmpty = errors.New("service title cannot be empty")
	// ErrServiceSlugEmpty is returned when attempting to create/update a service with an empty slug.
	ErrServiceSlugEmpty = errors.New("service slug cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create creates a new service in the database.
func Create(db *gorm.DB, s *models.Service) error {
	if db == nil {
		return ErrDBNil
	}
	if s.Title == "" {
		return ErrServiceTitleEmpty
	}
	if s.Slug == "" {
		return ErrServiceSlugEmpty
	}

	return db.Create(s).Error
}

// GetByID retrieves a service by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.Service, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var s models.Service
	result := db.Where(idQueryPattern, id).First(&s)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, result.Error
	}

	return &s, nil
}

// GetBySlug retrieves a service by its slug.
func GetBySlug(db *gorm.DB, slug string) (*models.Service, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if slug == "" {
		return nil, ErrServiceSlugEmpty
	}

	var s models.Service
	result := db.Where(slugQueryPattern, slug).First(&s)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, result.Error
	}

	return &s, nil
}

// GetAll retrieves all services ordered by sort order.
func GetAll(db *gorm.DB) ([]models.Service, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var services []models.Service
	result := db.Order("sort_order, title").Find(&services)
	if result.Error != nil {
		return nil, result.Error
	}

	return services, nil
}

// GetPublished retrieves published services only, ordered by sort order.
func GetPublished(db *gorm.DB) ([]models.Service, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var services []models.Service
	result := db.Where("published = ?", true).Order("sort_order, title").Find(&services)
	if result.Error != nil {
		return nil, result.Error
	}

	return services, nil
}

// Update updates an existing service.
func Update(db *gorm.DB, s *models.Service) error {
	if db == nil {
		return ErrDBNil
	}
	if s.Title == "" {
		return ErrServiceTitleEmpty
	}
	if s.Slug == "" {
		return ErrServiceSlugEmpty
	}

	result := db.Model(&models.Service{}).Where(idQueryPattern, s.ID).Updates(map[string]any{
		"title":       s.Title,
		"slug":        s.Slug,
		"description": s.Description,
		"icon":        s.Icon,
		"image":       s.Image,
		"sort_order":  s.SortOrder,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrServiceNotFound
	}

	return nil
}

// TogglePublish flips the publish flag of a service. PublishedAt is
// recorded on the first transition to published and preserved afterwards.
func TogglePublish(db *gorm.DB, id uint64) (*models.Service, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	s, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}

	s.Published = !s.Published
	updates := map[string]any{"published": s.Published}

	if s.Published && s.PublishedAt == nil {
		now := time.Now()
		s.PublishedAt = &now
		updates["published_at"] = s.PublishedAt
	}

	if result := db.Model(s).Updates(updates); result.Error != nil {
		return nil, result.Error
	}

	return s, nil
}

// Delete deletes a service by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Where(idQueryPattern, id).Delete(&models.Service{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrServiceNotFound
	}

	return nil
}
