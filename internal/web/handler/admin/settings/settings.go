// Package settings provides the admin screens for site settings.
package settings

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/auth"
	"github.com/mf010/dynamic-website-sub000/internal/config"
	"github.com/mf010/dynamic-website-sub000/internal/db/models"
	"github.com/mf010/dynamic-website-sub000/internal/media"
	"github.com/mf010/dynamic-website-sub000/internal/settings"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler/dashboard"
	"github.com/mf010/dynamic-website-sub000/internal/web/navigation"
)

const (
	// Path is the path to the settings admin area.
	Path = handler.RootPath + "admin/settings"

	// Template is the settings form template.
	Template = "admin/settings/form"

	// MediaFolder is the media store folder for setting images.
	MediaFolder = "settings"

	// DefaultGroup is the group shown when none is requested.
	DefaultGroup = models.SettingGroupGeneral
)

// groups lists the setting groups shown as tabs, in display order.
var groups = []string{
	models.SettingGroupGeneral,
	models.SettingGroupSocial,
	models.SettingGroupSEO,
}

// Service is the settings admin handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	db       *gorm.DB
	settings *settings.Service
	store    *media.Store
}

// Handler is the settings admin handler.
var Handler = Service{}

// Init initializes the settings admin handler.
func (s *Service) Init(
	app *fiber.App, cfg *config.Config, db *gorm.DB,
	authService *auth.Service, settingsService *settings.Service, store *media.Store,
) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.settings = settingsService
	s.store = store

	manage := auth.RequirePermission(authService, auth.PermAdminSettings)

	app.Get(Path, manage, s.Show)
	app.Post(Path, manage, s.Save)
	app.Post(Path+"/clear-cache", manage, s.ClearCache)
}

func (s *Service) nav() *navigation.Context {
	return navigation.NewContext("Settings", "admin", "settings").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Settings", Path, true)
}

func validGroup(group string) bool {
	for _, g := range groups {
		if g == group {
			return true
		}
	}

	return false
}

// Show renders the settings form for the requested group.
func (s *Service) Show(c *fiber.Ctx) error {
	group := c.Query("group", DefaultGroup)
	if !validGroup(group) {
		group = DefaultGroup
	}

	items, err := s.settings.ByGroup(group)
	if err != nil {
		log.Error().Err(err).Str("group", group).Msg("failed to load settings")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load settings")
	}

	return c.Render(Template, fiber.Map{
		"Navigation": s.nav(),
		"Groups":     groups,
		"Group":      group,
		"Settings":   items,
	}, handler.BaseLayout)
}

// Save persists the posted values for every setting of the active group.
// Image-typed settings take their value from an uploaded file named after
// the setting key; text fields post under their key directly.
func (s *Service) Save(c *fiber.Ctx) error {
	group := c.Query("group", DefaultGroup)
	if !validGroup(group) {
		group = DefaultGroup
	}

	items, err := s.settings.ByGroup(group)
	if err != nil {
		log.Error().Err(err).Str("group", group).Msg("failed to load settings")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load settings")
	}

	for i := range items {
		item := &items[i]

		var value string
		if item.Type == models.SettingTypeImage {
			old := ""
			if item.Value != nil {
				old = *item.Value
			}

			value, err = handler.SaveFormImage(c, s.store, item.Key, MediaFolder, old)
			if err != nil {
				return s.renderUploadError(c, group, items, err)
			}
		} else {
			value = c.FormValue(item.Key)
		}

		if err := s.settings.Set(item.Key, &value, item.Group, item.Type); err != nil {
			log.Error().Err(err).Str("key", item.Key).Msg("failed to save setting")

			return c.Status(fiber.StatusInternalServerError).SendString("Failed to save settings")
		}
	}

	return c.Redirect(Path + "?group=" + group)
}

// ClearCache drops every cached setting so the next read hits the database.
func (s *Service) ClearCache(c *fiber.Ctx) error {
	if err := s.settings.ClearCache(); err != nil {
		log.Error().Err(err).Msg("failed to clear settings cache")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to clear cache")
	}

	log.Info().Msg("settings cache cleared")

	return c.Redirect(Path)
}

func (s *Service) renderUploadError(c *fiber.Ctx, group string, items []models.Setting, err error) error {
	status := fiber.StatusInternalServerError
	msg := "Failed to store image"

	switch {
	case errors.Is(err, media.ErrExtNotAllowed),
		errors.Is(err, media.ErrFileTooLarge),
		errors.Is(err, media.ErrContentMismatch),
		errors.Is(err, media.ErrEmptyFile):
		status = fiber.StatusUnprocessableEntity
		msg = err.Error()
	default:
		log.Error().Err(err).Msg("failed to store setting image")
	}

	return c.Status(status).Render(Template, fiber.Map{
		"Navigation": s.nav(),
		"Groups":     groups,
		"Group":      group,
		"Settings":   items,
		"Error":      msg,
	}, handler.BaseLayout)
}
