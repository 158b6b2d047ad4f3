// Package contact provides operations for contact form submissions.
package contact

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/db/models"
)

const idQueryPattern = "id = ?"

var (
	// ErrContactNotFound is returned when a contact message is not found.
	ErrContactNotFound = errors.New("contact message not found")
	// ErrContactNameEmpty is returned when a submission has an empty name.
	ErrContactNameEmpty = errors.New("contact name cannot be empty")
	// ErrContactEmailEmpty is returned when a submission has an empty email.
	ErrContactEmailEmpty = errors.New("contact email cannot be empty")
	// ErrContactMessageEmpty is returned when a submission has an empty message.
	ErrContactMessageEmpty = errors.New("contact message cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create stores a new contact form submission.
func Create(db *gorm.DB, c *models.Contact) error {
	if db == nil {
		return ErrDBNil
	}
	if c.Name == "" {
		return ErrContactNameEmpty
	}
	if c.Email == "" {
		return ErrContactEmailEmpty
	}
	if c.Message == "" {
		return ErrContactMessageEmpty
	}

	return db.Create(c).Error
}

// GetByID retrieves a contact message by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.Contact, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var c models.Contact
	result := db.Where(idQueryPattern, id).First(&c)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, result.Error
	}

	return &c, nil
}

// GetAll retrieves all contact messages, newest first.
func GetAll(db *gorm.DB) ([]models.Contact, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var contacts []models.Contact
	result := db.Order("created_at DESC").Find(&contacts)
	if result.Error != nil {
		return nil, result.Error
	}

	return contacts, nil
}

// CountUnread returns the number of messages without a read timestamp.
func CountUnread(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	result := db.Model(&models.Contact{}).Where("read_at IS NULL").Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// MarkRead sets the read timestamp of a message. The timestamp records the
// first read; marking an already read message again leaves it unchanged.
func MarkRead(db *gorm.DB, id uint64) (*models.Contact, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	c, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}

	if c.ReadAt != nil {
		return c, nil
	}

	now := time.Now()
	c.ReadAt = &now
	if result := db.Model(c).Update("read_at", c.ReadAt); result.Error != nil {
		return nil, result.Error
	}

	return c, nil
}

// Delete deletes a contact message by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Where(idQueryPattern, id).Delete(&models.Contact{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}

	return nil
}
