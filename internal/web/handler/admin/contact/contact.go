// Package contact provides the admin screens for contact form submissions.
package contact

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/auth"
	"github.com/mf010/dynamic-website-sub000/internal/config"
	controller "github.com/mf010/dynamic-website-sub000/internal/db/controller/contact"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler/dashboard"
	"github.com/mf010/dynamic-website-sub000/internal/web/navigation"
)

const (
	// Path is the path to the contact messages admin area.
	Path = handler.RootPath + "admin/contacts"

	// ListTemplate is the message list template.
	ListTemplate = "admin/contacts/list"

	// ViewTemplate is the single message template.
	ViewTemplate = "admin/contacts/view"
)

// Service is the contact messages admin handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the contact messages admin handler.
var Handler = Service{}

// Init initializes the contact messages admin handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	manage := auth.RequirePermission(authService, auth.PermContactManage)

	app.Get(Path, manage, s.List)
	app.Get(Path+"/:id", manage, s.View)
	app.Post(Path+"/:id/delete", manage, s.Delete)
}

func (s *Service) nav(pageTitle string, active bool) *navigation.Context {
	nav := navigation.NewContext(pageTitle, "content", "contacts").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Messages", Path, !active)
	if active {
		nav.AddBreadcrumb(pageTitle, "", true)
	}

	return nav
}

// List renders the message listing, unread first by submission date.
func (s *Service) List(c *fiber.Ctx) error {
	messages, err := controller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list contact messages")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load messages")
	}

	unread, err := controller.CountUnread(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to count unread messages")
	}

	return c.Render(ListTemplate, fiber.Map{
		"Navigation": s.nav("Messages", false),
		"Messages":   messages,
		"Unread":     unread,
	}, handler.BaseLayout)
}

// View renders a single message and marks it as read.
func (s *Service) View(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid message ID")
	}

	msg, err := controller.MarkRead(s.db, id)
	if err != nil {
		if errors.Is(err, controller.ErrContactNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Message not found")
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to load contact message")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load message")
	}

	return c.Render(ViewTemplate, fiber.Map{
		"Navigation": s.nav("View Message", true),
		"Message":    msg,
	}, handler.BaseLayout)
}

// Delete removes a message.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid message ID")
	}

	if err := controller.Delete(s.db, id); err != nil {
		if errors.Is(err, controller.ErrContactNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Message not found")
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to delete contact message")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to delete message")
	}

	return c.Redirect(Path)
}
