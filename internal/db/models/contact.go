package models

import "time"

// Contact represents a public contact form submission.
// The message content is never updated; ReadAt is set once when an admin
// first views the message.
type Contact struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null"`
	Email     string `gorm:"size:255;not null"`
	Phone     string `gorm:"size:50"`
	Subject   string `gorm:"size:255"`
	Message   string `gorm:"type:text;not null"`
	ReadAt    *time.Time
	CreatedAt time.Time
}
