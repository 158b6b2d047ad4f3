package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/auth"
	"github.com/mf010/dynamic-website-sub000/internal/config"
	"github.com/mf010/dynamic-website-sub000/internal/db/models"
)

// defaultPermissions lists every permission the handlers check, keyed
// by name with its resource/action split and description.
var defaultPermissions = []models.Permission{
	{Name: auth.PermDashboardView, Resource: "dashboard", Action: "view", Description: "View the admin dashboard"},
	{Name: auth.PermNewsManage, Resource: "news", Action: "manage", Description: "Manage news articles"},
	{Name: auth.PermPageManage, Resource: "page", Action: "manage", Description: "Manage static pages"},
	{Name: auth.PermServiceManage, Resource: "service", Action: "manage", Description: "Manage services"},
	{Name: auth.PermSliderManage, Resource: "slider", Action: "manage", Description: "Manage sliders"},
	{Name: auth.PermContactManage, Resource: "contact", Action: "manage", Description: "Manage contact messages"},
	{Name: auth.PermMediaUpload, Resource: "media", Action: "upload", Description: "Upload media files"},
	{Name: auth.PermAdminSettings, Resource: "admin", Action: "settings", Description: "Manage site settings"},
	{Name: auth.PermAdminUsers, Resource: "admin", Action: "users", Description: "Manage user accounts"},
	{Name: auth.PermAdminRoles, Resource: "admin", Action: "roles", Description: "Manage roles"},
}

// editorPermissions is the subset granted to the Editor role.
var editorPermissions = []string{
	auth.PermDashboardView,
	auth.PermNewsManage,
	auth.PermPageManage,
	auth.PermServiceManage,
	auth.PermSliderManage,
	auth.PermContactManage,
	auth.PermMediaUpload,
}

func strptr(s string) *string { return &s }

// defaultSettings holds the settings created on first start so the
// admin settings screen has every known key to edit.
var defaultSettings = []models.Setting{
	{Key: "site_name", Value: strptr("Dynamic Website"), Group: models.SettingGroupGeneral, Type: models.SettingTypeText},
	{Key: "site_description", Value: strptr(""), Group: models.SettingGroupGeneral, Type: models.SettingTypeTextarea},
	{Key: "site_logo", Value: nil, Group: models.SettingGroupGeneral, Type: models.SettingTypeImage},
	{Key: "contact_email", Value: strptr(""), Group: models.SettingGroupGeneral, Type: models.SettingTypeText},
	{Key: "contact_phone", Value: strptr(""), Group: models.SettingGroupGeneral, Type: models.SettingTypeText},
	{Key: "facebook_url", Value: strptr(""), Group: models.SettingGroupSocial, Type: models.SettingTypeText},
	{Key: "twitter_url", Value: strptr(""), Group: models.SettingGroupSocial, Type: models.SettingTypeText},
	{Key: "instagram_url", Value: strptr(""), Group: models.SettingGroupSocial, Type: models.SettingTypeText},
	{Key: "youtube_url", Value: strptr(""), Group: models.SettingGroupSocial, Type: models.SettingTypeText},
	{Key: "meta_keywords", Value: strptr(""), Group: models.SettingGroupSEO, Type: models.SettingTypeTextarea},
	{Key: "meta_description", Value: strptr(""), Group: models.SettingGroupSEO, Type: models.SettingTypeTextarea},
	{Key: "google_analytics_id", Value: strptr(""), Group: models.SettingGroupSEO, Type: models.SettingTypeText},
}

// seed creates the roles, permissions, admin account and default
// settings on an empty database. Each block only runs when its table
// is empty, so existing installations are left alone.
func seed(_ *config.Config, db *gorm.DB) {
	seedPermissions(db)
	seedRolesAndAdmin(db)
	seedSettings(db)
}

func seedPermissions(db *gorm.DB) {
	var count int64
	db.Model(&models.Permission{}).Count(&count)
	if count > 0 {
		return
	}

	for i := range defaultPermissions {
		if err := db.Create(&defaultPermissions[i]).Error; err != nil {
			log.Error().Err(err).Str("permission", defaultPermissions[i].Name).Msg("failed to seed permission")
		}
	}

	log.Info().Int("count", len(defaultPermissions)).Msg("seeded permissions")
}

func seedRolesAndAdmin(db *gorm.DB) {
	var count int64
	db.Model(&models.Role{}).Count(&count)
	if count > 0 {
		return
	}

	admin := models.Role{Name: "Administrator", Description: "Full access", IsSystem: true}
	editor := models.Role{Name: "Editor", Description: "Content management"}

	if err := db.Create(&admin).Error; err != nil {
		log.Error().Err(err).Msg("failed to seed administrator role")
		return
	}
	if err := db.Create(&editor).Error; err != nil {
		log.Error().Err(err).Msg("failed to seed editor role")
	}

	var permissions []models.Permission
	db.Find(&permissions)

	editorSet := make(map[string]bool, len(editorPermissions))
	for _, name := range editorPermissions {
		editorSet[name] = true
	}

	for _, p := range permissions {
		db.Create(&models.RolePermission{RoleID: admin.ID, PermissionID: p.ID})
		if editorSet[p.Name] {
			db.Create(&models.RolePermission{RoleID: editor.ID, PermissionID: p.ID})
		}
	}

	var users int64
	db.Model(&models.User{}).Count(&users)
	if users == 0 {
		db.Create(&models.User{
			Username: "admin",
			Email:    "admin@localhost",
			Password: models.HashPassword("changeme"),
			Active:   true,
			RoleID:   admin.ID,
		})

		log.Warn().Msg("seeded default admin user, change its password after first login")
	}
}

func seedSettings(db *gorm.DB) {
	var count int64
	db.Model(&models.Setting{}).Count(&count)
	if count > 0 {
		return
	}

	for i := range defaultSettings {
		if err := db.Create(&defaultSettings[i]).Error; err != nil {
			log.Error().Err(err).Str("key", defaultSettings[i].Key).Msg("failed to seed setting")
		}
	}

	log.Info().Int("count", len(defaultSettings)).Msg("seeded default settings")
}
