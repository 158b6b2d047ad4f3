package models

import "time"

// Page represents a static site page (about, terms, ...).
type Page struct {
	ID          uint64 `gorm:"primaryKey"`
	Title       string `gorm:"size:255;not null"`
	Slug        string `gorm:"unique;size:255;not null"`
	Body        string `gorm:"type:text"`
	Image       string `gorm:"size:255"`
	Published   bool   `gorm:"default:false;index"`
	PublishedAt *time.Time
	// SortOrder controls menu ordering.
	SortOrder int `gorm:"default:0;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
