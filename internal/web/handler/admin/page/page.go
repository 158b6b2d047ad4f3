// Package page provides the admin screens for managing static pages.
package page

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/auth"
	"github.com/mf010/dynamic-website-sub000/internal/config"
	controller "github.com/mf010/dynamic-website-sub000/internal/db/controller/page"
	"github.com/mf010/dynamic-website-sub000/internal/db/models"
	"github.com/mf010/dynamic-website-sub000/internal/media"
	"github.com/mf010/dynamic-website-sub000/internal/slug"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler"
	"github.com/mf010/dynamic-website-sub000/internal/web/handler/dashboard"
	"github.com/mf010/dynamic-website-sub000/internal/web/navigation"
)

const (
	// Path is the path to the pages admin area.
	Path = handler.RootPath + "admin/pages"

	// ListTemplate is the page list template.
	ListTemplate = "admin/pages/list"

	// FormTemplate is the page create/edit form template.
	FormTemplate = "admin/pages/form"

	// MediaFolder is the media store folder for page images.
	MediaFolder = "pages"
)

// Form is the page create/edit form payload.
type Form struct {
	Title     string `form:"title" validate:"required,max=255"`
	Body      string `form:"body"`
	SortOrder int    `form:"sort_order"`
}

// Service is the pages admin handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	store     *media.Store
	validator *validator.Validate
}

// Handler is the pages admin handler.
var Handler = Service{}

// Init initializes the pages admin handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store *media.Store) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.store = store
	s.validator = validator.New()

	manage := auth.RequirePermission(authService, auth.PermPageManage)

	app.Get(Path, manage, s.List)
	app.Get(Path+"/new", manage, s.New)
	app.Post(Path+"/new", manage, s.Create)
	app.Get(Path+"/:id/edit", manage, s.Edit)
	app.Post(Path+"/:id/edit", manage, s.Update)
	app.Post(Path+"/:id/toggle", manage, s.Toggle)
	app.Post(Path+"/:id/delete", manage, s.Delete)
}

func (s *Service) nav(pageTitle string, active bool) *navigation.Context {
	nav := navigation.NewContext(pageTitle, "content", "pages").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Pages", Path, !active)
	if active {
		nav.AddBreadcrumb(pageTitle, "", true)
	}

	return nav
}

// List renders the page listing.
func (s *Service) List(c *fiber.Ctx) error {
	pages, err := controller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list pages")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load pages")
	}

	return c.Render(ListTemplate, fiber.Map{
		"Navigation": s.nav("Pages", false),
		"Pages":      pages,
	}, handler.BaseLayout)
}

// New renders an empty page form.
func (s *Service) New(c *fiber.Ctx) error {
	return c.Render(FormTemplate, fiber.Map{
		"Navigation": s.nav("New Page", true),
		"Page":       &models.Page{},
	}, handler.BaseLayout)
}

// Create handles the page creation form.
func (s *Service) Create(c *fiber.Ctx) error {
	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return s.renderForm(c, &models.Page{}, "New Page", "Invalid form data", fiber.StatusBadRequest)
	}

	p := &models.Page{
		Title:     form.Title,
		Body:      form.Body,
		SortOrder: form.SortOrder,
	}

	if msg := s.validate(form); msg != "" {
		return s.renderForm(c, p, "New Page", msg, fiber.StatusBadRequest)
	}

	p.Slug = slug.Unique(form.Title, func(candidate string) bool {
		_, err := controller.GetBySlug(s.db, candidate)
		return err == nil
	})

	imagePath, err := handler.SaveFormImage(c, s.store, "image", MediaFolder, "")
	if err != nil {
		return s.renderUploadError(c, p, "New Page", err)
	}
	p.Image = imagePath

	if err := controller.Create(s.db, p); err != nil {
		log.Error().Err(err).Msg("failed to create page")

		if _, delErr := s.store.Delete(p.Image); delErr != nil {
			log.Warn().Err(delErr).Str("path", p.Image).Msg("failed to remove orphaned image")
		}

		return s.renderForm(c, p, "New Page", "Failed to save page", fiber.StatusInternalServerError)
	}

	return c.Redirect(Path)
}

// Edit renders the page edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	p, err := s.load(c)
	if p == nil {
		return err
	}

	return c.Render(FormTemplate, fiber.Map{
		"Navigation": s.nav("Edit Page", true),
		"Page":       p,
	}, handler.BaseLayout)
}

// Update handles the page edit form submission.
func (s *Service) Update(c *fiber.Ctx) error {
	p, err := s.load(c)
	if p == nil {
		return err
	}

	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return s.renderForm(c, p, "Edit Page", "Invalid form data", fiber.StatusBadRequest)
	}

	if msg := s.validate(form); msg != "" {
		return s.renderForm(c, p, "Edit Page", msg, fiber.StatusBadRequest)
	}

	if form.Title != p.Title {
		p.Slug = slug.Unique(form.Title, func(candidate string) bool {
			existing, err := controller.GetBySlug(s.db, candidate)
			return err == nil && existing.ID != p.ID
		})
	}

	p.Title = form.Title
	p.Body = form.Body
	p.SortOrder = form.SortOrder

	imagePath, err := handler.SaveFormImage(c, s.store, "image", MediaFolder, p.Image)
	if err != nil {
		return s.renderUploadError(c, p, "Edit Page", err)
	}
	p.Image = imagePath

	if err := controller.Update(s.db, p); err != nil {
		log.Error().Err(err).Uint64("id", p.ID).Msg("failed to update page")

		return s.renderForm(c, p, "Edit Page", "Failed to save page", fiber.StatusInternalServerError)
	}

	return c.Redirect(Path)
}

// Toggle flips the publish flag of a page.
func (s *Service) Toggle(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid page ID")
	}

	if _, err := controller.TogglePublish(s.db, id); err != nil {
		if errors.Is(err, controller.ErrPageNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Page not found")
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to toggle page")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to update page")
	}

	return c.Redirect(Path)
}

// Delete removes a page and its image file.
func (s *Service) Delete(c *fiber.Ctx) error {
	p, err := s.load(c)
	if p == nil {
		return err
	}

	if err := controller.Delete(s.db, p.ID); err != nil {
		log.Error().Err(err).Uint64("id", p.ID).Msg("failed to delete page")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to delete page")
	}

	if _, err := s.store.Delete(p.Image); err != nil {
		log.Warn().Err(err).Str("path", p.Image).Msg("failed to remove page image")
	}

	return c.Redirect(Path)
}

// load resolves the :id route parameter to a page.
func (s *Service) load(c *fiber.Ctx) (*models.Page, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).SendString("Invalid page ID")
	}

	p, err := controller.GetByID(s.db, id)
	if err != nil {
		if errors.Is(err, controller.ErrPageNotFound) {
			return nil, c.Status(fiber.StatusNotFound).SendString("Page not found")
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to load page")

		return nil, c.Status(fiber.StatusInternalServerError).SendString("Failed to load page")
	}

	return p, nil
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

func (s *Service) renderForm(c *fiber.Ctx, p *models.Page, title, errMsg string, status int) error {
	return c.Status(status).Render(FormTemplate, fiber.Map{
		"Navigation": s.nav(title, true),
		"Page":       p,
		"Error":      errMsg,
	}, handler.BaseLayout)
}

func (s *Service) renderUploadError(c *fiber.Ctx, p *models.Page, title string, err error) error {
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
		log.Error().Err(err).Msg("failed to store page image")
	}

	return s.renderForm(c, p, title, msg, status)
}
