package models

import "time"

// Slider represents a homepage slider entry. The image is required.
type Slider struct {
	ID        uint64 `gorm:"primaryKey"`
	Title     string `gorm:"size:255;not null"`
	Caption   string `gorm:"size:500"`
	Image     string `gorm:"size:255;not null"`
	LinkURL   string `gorm:"size:255"`
	Published bool   `gorm:"default:false;index"`
	SortOrder int    `gorm:"default:0;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
