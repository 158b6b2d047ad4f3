package models

import "time"

// News represents a news article.
// The Image field holds a media store path; the file it points to is owned
// exclusively by this row and is deleted when the row is deleted or the
// image is replaced.
type News struct {
	ID      uint64 `gorm:"primaryKey"`
	Title   string `gorm:"size:255;not null"`
	Slug    string `gorm:"unique;size:255;not null"`
	Excerpt string `gorm:"size:500"`
	Body    string `gorm:"type:text"`
	Image   string `gorm:"size:255"`
	// Published is the publish flag; unpublished articles are drafts.
	Published bool `gorm:"default:false;index"`
	// PublishedAt is set once, at the first draft-to-published transition,
	// and left untouched by later toggles.
	PublishedAt *time.Time
	// Views counts public detail page hits.
	Views     uint64 `gorm:"default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
