package models

import "time"

// Service represents an offered service shown on the marketing site.
type Service struct {
	ID          uint64 `gorm:"primaryKey"`
	Title       string `gorm:"size:255;not null"`
	Slug        string `gorm:"unique;size:255;not null"`
	Description string `gorm:"type:text"`
	// Icon is a css icon class name, Image a media store path; either may be empty.
	Icon        string `gorm:"size:100"`
	Image       string `gorm:"size:255"`
	Published   bool   `gorm:"default:false;index"`
	PublishedAt *time.Time
	SortOrder   int `gorm:"default:0;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
