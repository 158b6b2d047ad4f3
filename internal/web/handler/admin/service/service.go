// Package service provides the admin screens for managing offered services.
package service

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/auth"
	"github.com/mf010/dynamic-website-sub000/internal/config"
	controller "github.com/mf010/dynamic-website-sub000/internal/db/controller/service"
	"github.com/mf010/dynamic-website-sub000/internal/db/models"
	"github.com/mf010/dynamic-website-sub000/internal/media"
	"github.com/mf010/dynamic-website-sub000/internal/slug"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler/dashboard"
	"github.com/mf010/dynamic-website-sub000/internal/web/navigation"
)

const (
	// Path is the path to the services admin area.
	Path = handler.RootPath + "admin/services"

	// ListTemplate is the service list template.
	ListTemplate = "admin/services/list"

	// FormTemplate is the service create/edit form template.
	FormTemplate = "admin/services/form"

	// MediaFolder is the media store folder for service images.
	MediaFolder = "services"
)

// Form is the service create/edit form payload.
type Form struct {
	Title       string `form:"title" validate:"required,max=255"`
	Description string `form:"description"`
	Icon        string `form:"icon"  validate:"max=100"`
	SortOrder   int    `form:"sort_order"`
}

// Service is the services admin handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	store     *media.Store
	validator *validator.Validate
}

// Handler is the services admin handler.
var Handler = Service{}

// Init initializes the services admin handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store *media.Store) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.store = store
	s.validator = validator.New()

	manage := auth.RequirePermission(authService, auth.PermServiceManage)

	app.Get(Path, manage, s.List)
	app.Get(Path+"/new", manage, s.New)
	app.Post(Path+"/new", manage, s.Create)
	app.Get(Path+"/:id/edit", manage, s.Edit)
	app.Post(Path+"/:id/edit", manage, s.Update)
	app.Post(Path+"/:id/toggle", manage, s.Toggle)
	app.Post(Path+"/:id/delete", manage, s.Delete)
}

func (s *Service) nav(pageTitle string, active bool) *navigation.Context {
	nav := navigation.NewContext(pageTitle, "content", "services").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Services", Path, !active)
	if active {
		nav.AddBreadcrumb(pageTitle, "", true)
	}

	return nav
}

// List renders the service listing.
func (s *Service) List(c *fiber.Ctx) error {
	services, err := controller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list services")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load services")
	}

	return c.Render(ListTemplate, fiber.Map{
		"Navigation": s.nav("Services", false),
		"Services":   services,
	}, handler.BaseLayout)
}

// New renders an empty service form.
func (s *Service) New(c *fiber.Ctx) error {
	return c.Render(FormTemplate, fiber.Map{
		"Navigation": s.nav("New Service", true),
		"Item":       &models.Service{},
	}, handler.BaseLayout)
}

// Create handles the service creation form.
func (s *Service) Create(c *fiber.Ctx) error {
	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return s.renderForm(c, &models.Service{}, "New Service", "Invalid form data", fiber.StatusBadRequest)
	}

	item := &models.Service{
		Title:       form.Title,
		Description: form.Description,
		Icon:        form.Icon,
		SortOrder:   form.SortOrder,
	}

	if msg := s.validate(form); msg != "" {
		return s.renderForm(c, item, "New Service", msg, fiber.StatusBadRequest)
	}

	item.Slug = slug.Unique(form.Title, func(candidate string) bool {
		_, err := controller.GetBySlug(s.db, candidate)
		return err == nil
	})

	imagePath, err := handler.SaveFormImage(c, s.store, "image", MediaFolder, "")
	if err != nil {
		return s.renderUploadError(c, item, "New Service", err)
	}
	item.Image = imagePath

	if err := controller.Create(s.db, item); err != nil {
		log.Error().Err(err).Msg("failed to create service")

		if _, delErr := s.store.Delete(item.Image); delErr != nil {
			log.Warn().Err(delErr).Str("path", item.Image).Msg("failed to remove orphaned image")
		}

		return s.renderForm(c, item, "New Service", "Failed to save service", fiber.StatusInternalServerError)
	}

	return c.Redirect(Path)
}

// Edit renders the service edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	item, err := s.load(c)
	if item == nil {
		return err
	}

	return c.Render(FormTemplate, fiber.Map{
		"Navigation": s.nav("Edit Service", true),
		"Item":       item,
	}, handler.BaseLayout)
}

// Update handles the service edit form submission.
func (s *Service) Update(c *fiber.Ctx) error {
	item, err := s.load(c)
	if item == nil {
		return err
	}

	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return s.renderForm(c, item, "Edit Service", "Invalid form data", fiber.StatusBadRequest)
	}

	if msg := s.validate(form); msg != "" {
		return s.renderForm(c, item, "Edit Service", msg, fiber.StatusBadRequest)
	}

	if form.Title != item.Title {
		item.Slug = slug.Unique(form.Title, func(candidate string) bool {
			existing, err := controller.GetBySlug(s.db, candidate)
			return err == nil && existing.ID != item.ID
		})
	}

	item.Title = form.Title
	item.Description = form.Description
	item.Icon = form.Icon
	item.SortOrder = form.SortOrder

	imagePath, err := handler.SaveFormImage(c, s.store, "image", MediaFolder, item.Image)
	if err != nil {
		return s.renderUploadError(c, item, "Edit Service", err)
	}
	item.Image = imagePath

	if err := controller.Update(s.db, item); err != nil {
		log.Error().Err(err).Uint64("id", item.ID).Msg("failed to update service")

		return s.renderForm(c, item, "Edit Service", "Failed to save service", fiber.StatusInternalServerError)
	}

	return c.Redirect(Path)
}

// Toggle flips the publish flag of a service.
func (s *Service) Toggle(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid service ID")
	}

	if _, err := controller.TogglePublish(s.db, id); err != nil {
		if errors.Is(err, controller.ErrServiceNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Service not found")
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to toggle service")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to update service")
	}

	return c.Redirect(Path)
}

// Delete removes a service and its image file.
func (s *Service) Delete(c *fiber.Ctx) error {
	item, err := s.load(c)
	if item == nil {
		return err
	}

	if err := controller.Delete(s.db, item.ID); err != nil {
		log.Error().Err(err).Uint64("id", item.ID).Msg("failed to delete service")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to delete service")
	}

	if _, err := s.store.Delete(item.Image); err != nil {
		log.Warn().Err(err).Str("path", item.Image).Msg("failed to remove service image")
	}

	return c.Redirect(Path)
}

// load resolves the :id route parameter to a service.
func (s *Service) load(c *fiber.Ctx) (*models.Service, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).SendString("Invalid service ID")
	}

	item, err := controller.GetByID(s.db, id)
	if err != nil {
		if errors.Is(err, controller.ErrServiceNotFound) {
			return nil, c.Status(fiber.StatusNotFound).SendString("Service not found")
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to load service")

		return nil, c.Status(fiber.StatusInternalServerError).SendString("Failed to load service")
	}

	return item, nil
}

func (s *Service) validate(form *Form) string {
	if err := s.validator.Struct(form); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			ve := validationErrors[0]
			return "Field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'"
		}

		return "Invalid form data"
	}

	return ""
}

func (s *Service) renderForm(c *fiber.Ctx, item *models.Service, title, errMsg string, status int) error {
	return c.Status(status).Render(FormTemplate, fiber.Map{
		"Navigation": s.nav(title, true),
		"Item":       item,
		"Error":      errMsg,
	}, handler.BaseLayout)
}

func (s *Service) renderUploadError(c *fiber.Ctx, item *models.Service, title string, err error) error {
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
		log.Error().Err(err).Msg("failed to store service image")
	}

	return s.renderForm(c, item, title, msg, status)
}
