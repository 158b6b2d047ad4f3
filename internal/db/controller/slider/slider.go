// Package slider provides CRUD operations for homepage slider entries.
package slider

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/db/models"
)

const idQueryPattern = "id = ?"

var (
	// ErrSliderNotFound is returned when a slider entry is not found.
	ErrSliderNotFound = errors.New("slider entry not found")
	// ErrSliderTitleEmpty is returned when attempting to create/update a slider entry with an empty title.
	ErrSliderTitleEmpty = errors.New("slider title cannot be empty")
	// ErrSliderImageEmpty is returned when attempting to create/update a slider entry without an image.
	ErrSliderImageEmpty = errors.New("slider image cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create creates a new slider entry in the database.
func Create(db *gorm.DB, s *models.Slider) error {
	if db == nil {
		return ErrDBNil
	}
	if s.Title == "" {
		return ErrSliderTitleEmpty
	}
	if s.Image == "" {
		return ErrSliderImageEmpty
	}

	return db.Create(s).Error
}

// GetByID retrieves a slider entry by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.Slider, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var s models.Slider
	result := db.Where(idQueryPattern, id).First(&s)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSliderNotFound
		}
		return nil, result.Error
	}

	return &s, nil
}

// GetAll retrieves all slider entries ordered by sort order.
func GetAll(db *gorm.DB) ([]models.Slider, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var sliders []models.Slider
	result := db.Order("sort_order, id").Find(&sliders)
	if result.Error != nil {
		return nil, result.Error
	}

	return sliders, nil
}

// GetPublished retrieves published slider entries only, ordered by sort order.
func GetPublished(db *gorm.DB) ([]models.Slider, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var sliders []models.Slider
	result := db.Where("published = ?", true).Order("sort_order, id").Find(&sliders)
	if result.Error != nil {
		return nil, result.Error
	}

	return sliders, nil
}

// Update updates an existing slider entry.
func Update(db *gorm.DB, s *models.Slider) error {
	if db == nil {
		return ErrDBNil
	}
	if s.Title == "" {
		return ErrSliderTitleEmpty
	}
	if s.Image == "" {
		return ErrSliderImageEmpty
	}

	result := db.Model(&models.Slider{}).Where(idQueryPattern, s.ID).Updates(map[string]any{
		"title":      s.Title,
		"caption":    s.Caption,
		"image":      s.Image,
		"link_url":   s.LinkURL,
		"sort_order": s.SortOrder,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSliderNotFound
	}

	return nil
}

// TogglePublish flips the publish flag of a slider entry.
func TogglePublish(db *gorm.DB, id uint64) (*models.Slider, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	s, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}

	s.Published = !s.Published
	if result := db.Model(s).Update("published", s.Published); result.Error != nil {
		return nil, result.Error
	}

	return s, nil
}

// Delete deletes a slider entry by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Where(idQueryPattern, id).Delete(&models.Slider{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSliderNotFound
	}

	return nil
}
