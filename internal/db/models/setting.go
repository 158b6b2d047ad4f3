// Package models contains database model definitions.
package models

// Setting value types. The type tag tells the admin UI how to render and
// interpret a value; "image" values hold a media store path.
const (
	SettingTypeText     = "text"
	SettingTypeTextarea = "textarea"
	SettingTypeImage    = "image"
	SettingTypeBoolean  = "boolean"
	SettingTypeNumber   = "number"
)

// Setting groups used for display grouping in the admin UI.
// The key alone addresses a setting; the group never does.
const (
	SettingGroupGeneral = "general"
	SettingGroupSocial  = "social"
	SettingGroupSEO     = "seo"
)

// Setting represents a configuration setting stored in the database.
type Setting struct {
	ID    uint64  `gorm:"primaryKey"`
	Key   string  `gorm:"column:setting_key;unique;size:100;not null"`
	Value *string `gorm:"type:text"`
	Group string  `gorm:"column:setting_group;size:50;not null;default:'general';index"`
	Type  string  `gorm:"size:20;not null;default:'text'"`
}
